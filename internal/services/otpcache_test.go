package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOTPCachePutGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryOTPCache(OTPTTL)

	_, ok, err := cache.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "a@example.com", "123456"))

	value, ok, err := cache.Get(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "123456", value)

	require.NoError(t, cache.Delete(ctx, "a@example.com"))

	_, ok, err = cache.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryOTPCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryOTPCache(20 * time.Millisecond)

	require.NoError(t, cache.Put(ctx, "a@example.com", "123456"))
	time.Sleep(40 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "entry should have expired")
}

func TestMemoryOTPCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryOTPCache(OTPTTL)

	require.NoError(t, cache.Put(ctx, "a@example.com", "111111"))
	require.NoError(t, cache.Put(ctx, "a@example.com", "222222"))

	value, ok, err := cache.Get(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "222222", value, "resend should replace the previous code")
}
