package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got []string
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "aliases", []string{"a", "b"}, 0))

	found, err = c.Get(ctx, "aliases", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var got string
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "slug:aliases:jane-doe", "x", 0))
	require.NoError(t, c.Set(ctx, "slug:aliases:john-roe", "x", 0))
	require.NoError(t, c.Set(ctx, "other:key", "x", 0))

	require.NoError(t, c.DeletePattern(ctx, "slug:aliases:*"))

	var got string
	found, _ := c.Get(ctx, "slug:aliases:jane-doe", &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, "other:key", &got)
	assert.True(t, found)
}

func TestMemoryCache_IncrementExpire(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	n, err := c.Increment(ctx, "bucket")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "bucket")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Expire(ctx, "bucket", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	n, err = c.Increment(ctx, "bucket")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "expired counter restarts")
}
