package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottleSpacesCalls(t *testing.T) {
	t.Parallel()

	th := NewThrottle(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, th.Wait(ctx))
	require.Less(t, time.Since(start), 20*time.Millisecond, "first token is free")

	require.NoError(t, th.Wait(ctx))
	require.NoError(t, th.Wait(ctx))
	require.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestThrottleDisabled(t *testing.T) {
	t.Parallel()

	th := NewThrottle(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottleHonorsCancellation(t *testing.T) {
	t.Parallel()

	th := NewThrottle(time.Hour)
	require.NoError(t, th.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, th.Wait(ctx))
}
