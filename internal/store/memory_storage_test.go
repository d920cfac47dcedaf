package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageGetSet(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	var got string
	err := storage.Get(ctx, "missing", &got)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Set(ctx, "greeting", "hello", time.Minute))
	require.NoError(t, storage.Get(ctx, "greeting", &got))
	assert.Equal(t, "hello", got)

	require.NoError(t, storage.Delete(ctx, "greeting"))
	assert.ErrorIs(t, storage.Get(ctx, "greeting", &got), ErrNotFound)
}

func TestMemoryStorageExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "short", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got int
	assert.ErrorIs(t, storage.Get(ctx, "short", &got), ErrNotFound)
}

func TestMemoryStorageIncr(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		count, err := storage.Incr(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	ttl, err := storage.TTL(ctx, "counter")
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func TestMemoryStorageIncrWindowReset(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	_, err := storage.Incr(ctx, "burst", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	count, err := storage.Incr(ctx, "burst", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired window should restart the counter")
}
