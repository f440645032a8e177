package ratelimiter

import (
	"context"
	"time"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result describes a single rate limit decision.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time

	allowed    bool
	retryAfter time.Duration
}

// Allowed reports whether the request may proceed.
func (r *Result) Allowed() bool {
	return r.allowed
}

// RetryAfter is how long the caller should wait before retrying.
// Zero when the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.allowed {
		return 0
	}
	return r.retryAfter
}

// Config describes a token bucket: Burst tokens, refilled at RPS per second.
type Config struct {
	RPS   float64
	Burst int
}

func (c Config) validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
