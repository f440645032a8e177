package ratelimiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	for _, cfg := range []ratelimiter.Config{
		{RPS: 0, Burst: 1},
		{RPS: 1, Burst: 0},
		{RPS: -1, Burst: -1},
	} {
		_, err := ratelimiter.New(cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l, err := ratelimiter.New(ratelimiter.Config{RPS: 1, Burst: 3}, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()
	for i := range 3 {
		res, err := l.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "request %d must pass within burst", i)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Second, res.RetryAfter())

	// Denied requests do not consume tokens.
	clock.Advance(time.Second)
	res, err = l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l, err := ratelimiter.New(ratelimiter.Config{RPS: 1, Burst: 1}, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()
	res, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Allowed())

	res, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	res, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 2, l.Len())
}

func TestLimiter_CancelledContext(t *testing.T) {
	t.Parallel()

	l, err := ratelimiter.New(ratelimiter.Config{RPS: 1, Burst: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Allow(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiter_RemoveStale(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l, err := ratelimiter.New(ratelimiter.Config{RPS: 1, Burst: 1},
		ratelimiter.WithClock(clock.Now),
		ratelimiter.WithStaleAfter(time.Minute),
	)
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = l.Allow(ctx, "old")
	clock.Advance(2 * time.Minute)
	_, _ = l.Allow(ctx, "fresh")

	assert.Equal(t, 1, l.RemoveStale())
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_Lifecycle(t *testing.T) {
	t.Parallel()

	l, err := ratelimiter.New(ratelimiter.Config{RPS: 1, Burst: 1},
		ratelimiter.WithCleanupInterval(10*time.Millisecond))
	require.NoError(t, err)

	assert.ErrorIs(t, l.Stop(), ratelimiter.ErrNotStarted)
	assert.Error(t, l.Healthcheck(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx)() }()

	require.Eventually(t, func() bool {
		return l.Healthcheck(context.Background()) == nil
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, l.Start(ctx), ratelimiter.ErrAlreadyStarted)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestLimiter_ConcurrentAllow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l, err := ratelimiter.New(ratelimiter.Config{RPS: 1, Burst: 50}, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
}
