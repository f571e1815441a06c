package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
)

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
}

type Service interface {
	// AuditLog fills actor, request id and client details from ctx when the
	// caller leaves them empty. Sensitive metadata values are masked.
	AuditLog(ctx context.Context, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, req ListAuditLogRequest) (pagination.Page[AuditLog], error)
}

var (
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidAction    = errors.New("invalid_action")
)
