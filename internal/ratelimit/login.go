package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"go.uber.org/zap"
)

const keyLogin = "login:%s:%s"

// LoginLimiter throttles login attempts per client address and username.
type LoginLimiter interface {
	Allow(ctx context.Context, ip, username string) (*RateLimitResult, error)
}

type redisLoginLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func (l *redisLoginLimiter) Allow(ctx context.Context, ip, username string) (*RateLimitResult, error) {
	return l.bucket.Allow(ctx, loginKey(ip, username), l.rate, l.burst)
}

type memoryLoginLimiter struct {
	window *FixedWindow
}

func (l *memoryLoginLimiter) Allow(ctx context.Context, ip, username string) (*RateLimitResult, error) {
	return l.window.Allow(ctx, loginKey(ip, username))
}

// NewLoginLimiter uses the shared Redis bucket when a client is available and
// an in-process window otherwise. A non-positive rate disables throttling.
func NewLoginLimiter(cfg config.Config, client *redis.Client, clk clock.Clock, log *zap.Logger) LoginLimiter {
	log = log.Named("ratelimit.login")

	perMinute := cfg.LoginRatePerMinute
	if perMinute <= 0 {
		log.Info("login rate limit disabled")
		return &memoryLoginLimiter{window: NewFixedWindow(clk, 0, 0)}
	}

	burst := cfg.LoginBurst
	if burst <= 0 {
		burst = perMinute
	}

	if client != nil {
		log.Info("login rate limit backed by redis",
			zap.Int("per_minute", perMinute),
			zap.Int("burst", burst),
		)
		return &redisLoginLimiter{
			bucket: NewTokenBucket(client),
			rate:   float64(perMinute) / 60,
			burst:  burst,
		}
	}

	log.Info("login rate limit kept in memory", zap.Int("per_minute", perMinute))
	return &memoryLoginLimiter{window: NewFixedWindow(clk, perMinute, time.Minute)}
}

func loginKey(ip, username string) string {
	return fmt.Sprintf(keyLogin, strings.TrimSpace(ip), strings.ToLower(strings.TrimSpace(username)))
}
