package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/orderdesk/internal/auth/domain"
	"github.com/smallbiznis/orderdesk/internal/auth/password"
	"github.com/smallbiznis/orderdesk/internal/auth/token"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/observability/logger"
	"github.com/smallbiznis/orderdesk/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// dummyHash keeps failed lookups as slow as failed password checks.
const dummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Issuer  *token.Issuer
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	issuer  *token.Issuer
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("auth.service"),
		repo:    p.Repo,
		issuer:  p.Issuer,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (s *Service) EnsureUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, bool, error) {
	username := normalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		return nil, false, domain.ErrInvalidCredentials
	}
	role, ok := domain.ParseRole(string(req.Role))
	if !ok {
		return nil, false, domain.ErrInvalidRole
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, false, err
	}

	now := s.clock.Now()
	user := &domain.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			existing, findErr := s.repo.FindByUsername(ctx, username)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := normalizeUsername(req.Username)
	log := logger.WithContext(ctx, s.log).With(
		zap.String("username", username),
		zap.String("ip", req.IPAddress),
	)

	if username == "" || req.Password == "" {
		s.metrics.RecordLogin(ctx, "invalid")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordLogin(ctx, "error")
			return nil, err
		}
		password.Verify(req.Password, dummyHash)
		s.metrics.RecordLogin(ctx, "invalid")
		log.Info("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		s.metrics.RecordLogin(ctx, "invalid")
		log.Info("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if password.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, log, user, req.Password)
	}

	raw, expiresAt, err := s.issuer.Issue(user.Username, user.Role)
	if err != nil {
		s.metrics.RecordLogin(ctx, "error")
		return nil, err
	}

	s.metrics.RecordLogin(ctx, "success")
	logger.WithActor(log, string(user.Role), user.Username).Info("login succeeded")

	return &domain.LoginResult{
		AccessToken: raw,
		ExpiresAt:   expiresAt,
		Role:        user.Role,
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Claims, error) {
	return s.issuer.Parse(rawToken)
}

// upgradeHash re-encodes a verified password with the current cost settings.
// Failures are logged and never block the login.
func (s *Service) upgradeHash(ctx context.Context, log *zap.Logger, user *domain.User, plain string) {
	hashed, err := password.Hash(plain)
	if err != nil {
		log.Warn("password rehash failed", zap.Error(err))
		return
	}
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash": hashed,
		"updated_at":    s.clock.Now().UTC(),
	}); err != nil {
		log.Warn("password rehash not stored", zap.Error(err))
		return
	}
	user.PasswordHash = hashed
	log.Info("password hash upgraded")
}

func normalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
