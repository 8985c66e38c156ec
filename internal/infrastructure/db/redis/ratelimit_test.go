package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRateLimiterTest(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimiter(client, limit, window), mr
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl, _ := setupRateLimiterTest(t, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := rl.Allow(ctx, "user:1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if d.Remaining != 2-i {
			t.Fatalf("request %d: expected remaining %d, got %d", i+1, 2-i, d.Remaining)
		}
	}

	d, err := rl.Allow(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("fourth request should be rejected")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Hour {
		t.Fatalf("unexpected retry after: %s", d.RetryAfter)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := setupRateLimiterTest(t, 1, time.Hour)
	ctx := context.Background()

	if d, _ := rl.Allow(ctx, "user:1"); !d.Allowed {
		t.Fatal("first request for user:1 should be allowed")
	}
	if d, _ := rl.Allow(ctx, "user:2"); !d.Allowed {
		t.Fatal("first request for user:2 should be allowed")
	}
	if d, _ := rl.Allow(ctx, "user:1"); d.Allowed {
		t.Fatal("second request for user:1 should be rejected")
	}
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	rl, mr := setupRateLimiterTest(t, 1, time.Minute)
	ctx := context.Background()

	_, _ = rl.Allow(ctx, "ip:10.0.0.1")
	if d, _ := rl.Allow(ctx, "ip:10.0.0.1"); d.Allowed {
		t.Fatal("second request should be rejected inside the window")
	}

	mr.FastForward(time.Minute + time.Second)

	if d, _ := rl.Allow(ctx, "ip:10.0.0.1"); !d.Allowed {
		t.Fatal("request should be allowed after the window expired")
	}
}

func TestRateLimiter_SetsKeyExpiry(t *testing.T) {
	rl, mr := setupRateLimiterTest(t, 5, 30*time.Second)

	_, _ = rl.Allow(context.Background(), "user:9")

	if ttl := mr.TTL("rate_limit:user:9"); ttl != 30*time.Second {
		t.Fatalf("expected ttl 30s, got %s", ttl)
	}
}

func TestRateLimiter_RedisDown(t *testing.T) {
	rl, mr := setupRateLimiterTest(t, 5, time.Minute)
	mr.Close()

	if _, err := rl.Allow(context.Background(), "user:1"); err == nil {
		t.Fatal("expected an error when redis is unreachable")
	}
}

func TestConnectAndPing(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	if err := Ping(client)(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	mr.Close()
	if err := Ping(client)(context.Background()); err == nil {
		t.Fatal("expected ping error after server shutdown")
	}
}

func TestConnectUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected error connecting to a closed server")
	}
}
