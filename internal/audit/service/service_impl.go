package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/orderdesk/internal/audit/domain"
	"github.com/smallbiznis/orderdesk/internal/audit/masking"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	obscontext "github.com/smallbiznis/orderdesk/internal/observability/context"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Clock   clock.Clock
	Listing *config.ListingConfigHolder `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	clock   clock.Clock
	listing *config.ListingConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("audit.service"),
		repo:    p.Repo,
		clock:   p.Clock,
		listing: p.Listing,
	}
}

func (s *Service) AuditLog(ctx context.Context, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return domain.ErrInvalidAction
	}

	targetType = strings.TrimSpace(targetType)
	if targetType == "" {
		targetType = "unknown"
	}

	resolvedActorType, resolvedActorID, actorRole := s.resolveActor(ctx, strings.TrimSpace(actorType), actorID)
	ipAddress, userAgent := obscontext.ClientFromContext(ctx)

	payload := masking.MaskSensitive(metadata)
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}
	if actorRole != "" {
		payload["actor_role"] = actorRole
	}

	entry := domain.AuditLog{
		ActorType:  resolvedActorType,
		ActorID:    resolvedActorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   normalizePointer(targetID),
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  s.clock.Now(),
	}
	if ipAddress != "" {
		entry.IPAddress = &ipAddress
	}
	if userAgent != "" {
		entry.UserAgent = &userAgent
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListAuditLogRequest) (pagination.Page[domain.AuditLog], error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return pagination.Page[domain.AuditLog]{}, domain.ErrInvalidTimeRange
	}

	listing := s.listing.Get()
	page, err := req.Pagination.Normalize(listing.DefaultPageSize, listing.MaxPageSize)
	if err != nil {
		field, message := pagination.Violation(err)
		return pagination.Page[domain.AuditLog]{}, validation.New(field, "invalid", message)
	}

	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ActorType:  req.ActorType,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
	}, page)
	if err != nil {
		return pagination.Page[domain.AuditLog]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *Service) resolveActor(ctx context.Context, actorType string, actorID *string) (string, *string, string) {
	ctxRole, ctxID := obscontext.ActorFromContext(ctx)
	if actorType == "" && ctxID != "" {
		actorType = string(domain.ActorTypeUser)
		if actorID == nil || strings.TrimSpace(*actorID) == "" {
			actorID = &ctxID
		}
	}
	if actorType == "" {
		actorType = string(domain.ActorTypeSystem)
	}

	return actorType, normalizePointer(actorID), ctxRole
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
