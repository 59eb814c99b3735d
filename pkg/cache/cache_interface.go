package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. The slug resolver, the CSV
// loader and the rate limiter all receive this interface instead of a
// concrete Redis client, so tests can run against the in-memory
// implementation and deployments without Redis still work.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns (found, error):
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL. ttl = 0 means no expiry
	// (used by the slug alias cache, which is flushed explicitly).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes all keys matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Increment and Expire back the fixed-window rate limiter.
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error

	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
