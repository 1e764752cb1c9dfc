package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter_BurstWithinLimit は上限内の呼び出しが待機しないことを検証します。
func TestRateLimiter_BurstWithinLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter("test", 5, time.Minute)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, rl.WaitIfNeeded(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestRateLimiter_WaitsWhenExceeded は上限超過時に待機することを検証します。
func TestRateLimiter_WaitsWhenExceeded(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter("test", 2, 100*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.WaitIfNeeded(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

// TestRateLimiter_ContextCanceled は待機中のキャンセルでエラーが返ることを検証します。
func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	rl := PerMinute("test", 1)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.WaitIfNeeded(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

// TestRateLimiter_Unlimited はlimitが0以下の場合に無制限になることを検証します。
func TestRateLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	for _, limit := range []int{0, -1} {
		rl := NewRateLimiter("test", limit, time.Minute)
		for i := 0; i < 100; i++ {
			require.NoError(t, rl.WaitIfNeeded(context.Background()))
		}
	}
}
