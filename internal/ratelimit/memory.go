package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallbiznis/orderdesk/internal/clock"
)

type window struct {
	start time.Time
	count int
}

// FixedWindow counts hits per key in fixed windows. State lives in process
// memory and is not shared between replicas.
type FixedWindow struct {
	mu      sync.Mutex
	clock   clock.Clock
	limit   int
	period  time.Duration
	windows map[string]*window
}

func NewFixedWindow(clk clock.Clock, limit int, period time.Duration) *FixedWindow {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &FixedWindow{
		clock:   clk,
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
	}
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	if key == "" {
		return &RateLimitResult{Allowed: false}, errors.New("rate limiter key is empty")
	}
	if f.limit <= 0 || f.period <= 0 {
		return &RateLimitResult{Allowed: true}, nil
	}

	now := f.clock.Now()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.evict(now)

	w, ok := f.windows[key]
	if !ok || !now.Before(w.start.Add(f.period)) {
		w = &window{start: now}
		f.windows[key] = w
	}

	reset := w.start.Add(f.period)
	if w.count >= f.limit {
		return &RateLimitResult{
			Allowed:    false,
			Limit:      f.limit,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}, nil
	}

	w.count++
	return &RateLimitResult{
		Allowed:   true,
		Limit:     f.limit,
		Remaining: f.limit - w.count,
		ResetTime: reset,
	}, nil
}

// evict drops expired windows once the map grows past a small bound.
func (f *FixedWindow) evict(now time.Time) {
	if len(f.windows) < 1024 {
		return
	}
	for key, w := range f.windows {
		if !now.Before(w.start.Add(f.period)) {
			delete(f.windows, key)
		}
	}
}
