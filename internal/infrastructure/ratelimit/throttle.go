package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"BlogScout/internal/ports"
)

// Throttle spaces units of work at least interval apart using a token bucket
// with a burst of one. The first Wait returns immediately.
type Throttle struct {
	limiter *rate.Limiter
}

var _ ports.Throttle = (*Throttle)(nil)

// NewThrottle builds a throttle; interval <= 0 disables waiting.
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next token is available or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}
