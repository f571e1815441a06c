package migration

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/ratelimit"
	"github.com/smallbiznis/orderdesk/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedLockKey = "orderdesk:seed"

type params struct {
	fx.In

	DB     *gorm.DB
	Config config.Config
	Log    *zap.Logger
	Seeder *seed.Seeder
	Locker *ratelimit.Locker `optional:"true"`
}

var Module = fx.Module("migrations",
	fx.Invoke(func(p params) error {
		if err := Apply(p.DB); err != nil {
			return err
		}
		p.Log.Info("database schema ready", zap.String("dialect", p.DB.Dialector.Name()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := p.Locker.WithLock(ctx, seedLockKey, time.Minute, p.Seeder.Run)
		if errors.Is(err, ratelimit.ErrLockHeld) {
			p.Log.Info("seed skipped, another instance holds the lock")
			return nil
		}
		return err
	}),
)
