package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, info, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, now.Add(time.Minute), info.ResetTime)

	// 다른 키는 독립
	allowed, _, _ = limiter.Allow(ctx, "user:2")
	assert.True(t, allowed)

	now = now.Add(time.Minute)
	allowed, _, _ = limiter.Allow(ctx, "user:1")
	assert.True(t, allowed)
}

func TestMemoryLimiter_Reset(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Hour)
	ctx := context.Background()

	allowed, _, _ := limiter.Allow(ctx, "k")
	assert.True(t, allowed)
	allowed, _, _ = limiter.Allow(ctx, "k")
	assert.False(t, allowed)

	limiter.Reset("k")
	allowed, _, _ = limiter.Allow(ctx, "k")
	assert.True(t, allowed)
}
