package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sitecraft/website-builder/internal/core/ports"
)

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: rate_limit:<key>
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per key in every window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one request for key. The window starts with the first request.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	k := l.key(key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return ports.RateDecision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	if int(n) <= l.limit {
		return ports.RateDecision{Allowed: true, Remaining: l.limit - int(n)}, nil
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// Counter lost its expiry; restart the window so the key cannot stick forever.
		_ = l.client.Expire(ctx, k, l.window).Err()
		ttl = l.window
	}
	return ports.RateDecision{Allowed: false, RetryAfter: ttl}, nil
}

func (l *RateLimiter) key(key string) string {
	return "rate_limit:" + key
}
