package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name for logging. A nil Limiter never
// blocks.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing requestsPerSecond with a burst of one.
// Fractional rates such as 0.5 (one request every two seconds) are allowed.
// A non-positive rate returns nil, which disables limiting.
func New(name string, requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		name:    name,
	}
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}

func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}
