package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of a single rate-limit check.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts requests per key over a rolling window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
