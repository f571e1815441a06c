package seed

import (
	"context"
	"errors"

	authdomain "github.com/smallbiznis/orderdesk/internal/auth/domain"
	"github.com/smallbiznis/orderdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultUserUsername  = "user"
	defaultUserPassword  = "user"
)

var Module = fx.Module("seed",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Auth   authdomain.Service
}

// Seeder creates the fixed accounts the API ships with.
type Seeder struct {
	log      *zap.Logger
	auth     authdomain.Service
	accounts []authdomain.CreateUserRequest
}

func New(p Params) (*Seeder, error) {
	if p.Auth == nil {
		return nil, errors.New("seed auth service is required")
	}
	return &Seeder{
		log:      p.Log.Named("seed"),
		auth:     p.Auth,
		accounts: Accounts(p.Config),
	}, nil
}

// Accounts returns the admin and user accounts with passwords taken from cfg.
func Accounts(cfg config.Config) []authdomain.CreateUserRequest {
	adminPassword := cfg.SeedAdminPassword
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}
	userPassword := cfg.SeedUserPassword
	if userPassword == "" {
		userPassword = defaultUserPassword
	}
	return []authdomain.CreateUserRequest{
		{Username: defaultAdminUsername, Password: adminPassword, Role: authdomain.RoleAdmin},
		{Username: defaultUserUsername, Password: userPassword, Role: authdomain.RoleUser},
	}
}

// Run is idempotent; existing accounts keep their passwords.
func (s *Seeder) Run(ctx context.Context) error {
	for _, account := range s.accounts {
		user, created, err := s.auth.EnsureUser(ctx, account)
		if err != nil {
			return err
		}
		if created {
			s.log.Info("seeded account",
				zap.String("username", user.Username),
				zap.String("role", string(user.Role)),
			)
		}
	}
	return nil
}
