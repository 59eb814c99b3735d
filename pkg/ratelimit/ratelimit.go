package ratelimit

import (
	"context"
	"fmt"
	"time"

	"dat-backend/pkg/cache"
)

// Limiter decides whether a caller identified by key may proceed.
// Injected into middleware so the backend can be swapped (Redis in
// production, in-memory in tests) without touching call sites.
type Limiter interface {
	// Allow records one hit for key and reports whether it is still
	// within the window budget.
	Allow(ctx context.Context, key string) (bool, error)
}

// CacheLimiter is a fixed-window counter on top of the cache layer:
// INCR the window key, set the expiry on first hit, deny past the limit.
// Counters live in the cache only, so they reset on flush/restart —
// acceptable for a single-instance deployment.
type CacheLimiter struct {
	cache  cache.Cache
	limit  int64
	window time.Duration
	prefix string
}

func NewCacheLimiter(c cache.Cache, limit int64, window time.Duration) *CacheLimiter {
	// Window bucketing divides by whole seconds; anything shorter would
	// divide by zero.
	if window < time.Second {
		window = time.Second
	}
	return &CacheLimiter{
		cache:  c,
		limit:  limit,
		window: window,
		prefix: "ratelimit",
	}
}

func (l *CacheLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("%s:%s:%d", l.prefix, key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.cache.Increment(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("rate limit increment: %w", err)
	}

	if count == 1 {
		// First hit in this window owns the expiry.
		if err := l.cache.Expire(ctx, bucket, l.window); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return count <= l.limit, nil
}
