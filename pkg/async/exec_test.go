package async_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/azim128/LiveDataStream/pkg/async"
)

func TestExecFunctionality(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	futureInt := async.Exec(ctx, 42, func(ctx context.Context, num int) error {
		time.Sleep(20 * time.Millisecond)
		if num != 42 {
			return errors.New("unexpected number")
		}
		return nil
	})

	futureString := async.Exec(ctx, "hello", func(ctx context.Context, s string) error {
		if s == "" {
			return errors.New("empty string")
		}
		return nil
	})

	if err := futureInt.Await(); err != nil {
		t.Errorf("Unexpected error from futureInt: %v", err)
	}
	if err := futureString.Await(); err != nil {
		t.Errorf("Unexpected error from futureString: %v", err)
	}
}

func TestExecErrorPropagation(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("store failed")
	future := async.Exec(context.Background(), "value", func(ctx context.Context, v string) error {
		return expectedErr
	})

	if err := future.Await(); !errors.Is(err, expectedErr) {
		t.Errorf("Expected error '%v', got: %v", expectedErr, err)
	}
}

func TestExecContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	future := async.Exec(ctx, 1, func(ctx context.Context, _ int) error {
		called = true
		return nil
	})

	if err := future.Await(); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context canceled error, got: %v", err)
	}
	if called {
		t.Error("Function must not run with a pre-cancelled context")
	}
}

func TestExecDetachedContextOutlivesParent(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})

	future := async.Exec(context.WithoutCancel(parent), "v", func(ctx context.Context, _ string) error {
		<-release
		return ctx.Err()
	})

	cancel()
	close(release)

	if err := future.Await(); err != nil {
		t.Errorf("Detached work must not observe parent cancellation, got: %v", err)
	}
}

func TestExecPanicRecovery(t *testing.T) {
	t.Parallel()

	future := async.Exec(context.Background(), 0, func(ctx context.Context, _ int) error {
		panic("boom")
	})

	err := future.Await()
	if !errors.Is(err, async.ErrPanic) {
		t.Fatalf("Expected ErrPanic, got: %v", err)
	}
}

func TestExecConcurrentIncrement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var mu sync.Mutex
	counter := 0

	futures := make([]*async.ExecFuture, 0, 1000)
	for range 1000 {
		futures = append(futures, async.Exec(ctx, 1, func(_ context.Context, delta int) error {
			mu.Lock()
			defer mu.Unlock()
			counter += delta
			return nil
		}))
	}

	for _, future := range futures {
		if err := future.Await(); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if counter != 1000 {
		t.Errorf("Expected counter to be 1000, got %d", counter)
	}
}

func TestExecIsComplete(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	future := async.Exec(context.Background(), 0, func(ctx context.Context, _ int) error {
		<-release
		return nil
	})

	if future.IsComplete() {
		t.Error("Expected future to not be complete before release")
	}

	close(release)
	<-future.Done()

	if !future.IsComplete() {
		t.Error("Expected future to be complete after Done")
	}
}

func TestExecAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fastFuture := async.Exec(ctx, 10, func(ctx context.Context, ms int) error {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return nil
	})
	if err := fastFuture.AwaitWithTimeout(time.Second); err != nil {
		t.Errorf("Expected no error for fast future, got: %v", err)
	}

	release := make(chan struct{})
	defer close(release)
	slowFuture := async.Exec(ctx, 0, func(ctx context.Context, _ int) error {
		<-release
		return nil
	})
	if err := slowFuture.AwaitWithTimeout(30 * time.Millisecond); !errors.Is(err, async.ErrTimeout) {
		t.Errorf("Expected timeout error, got: %v", err)
	}
}
