package cache

import (
	"context"
	"encoding/json"
	"path"
	"strings"
	"sync"
	"time"

	pkgcache "dat-backend/pkg/cache"
)

type memoryEntry struct {
	data      []byte
	counter   int64
	expiresAt time.Time // zero = no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is a process-local Cache used in tests and in deployments
// that run without Redis. Values round-trip through JSON so behavior
// matches the Redis implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]*memoryEntry{}}
}

func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || entry.expired(time.Now()) || entry.data == nil {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := &memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.entries {
		if matchPattern(pattern, k) {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *MemoryCache) Increment(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.expired(time.Now()) {
		entry = &memoryEntry{}
		m.entries[key] = entry
	}
	entry.counter++
	return entry.counter, nil
}

func (m *MemoryCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.entries[key]; ok {
		entry.expiresAt = time.Now().Add(ttl)
	}
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	return ok && !entry.expired(time.Now()), nil
}

func (m *MemoryCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || entry.expiresAt.IsZero() {
		return -1, nil
	}
	return time.Until(entry.expiresAt), nil
}

func (m *MemoryCache) Ping(ctx context.Context) error { return nil }

// matchPattern supports the redis-style glob subset we actually use
// ("prefix:*"). path.Match covers it since keys contain no '/'.
func matchPattern(pattern, key string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return pattern == key
	}
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}

var _ pkgcache.Cache = (*MemoryCache)(nil)
