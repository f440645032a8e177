package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_FIFO(t *testing.T) {
	t.Parallel()

	s := newSubscriber(0)
	for _, msg := range []string{"one", "two", "three"} {
		require.Equal(t, enqueued, s.enqueue(msg))
	}
	assert.Equal(t, 3, s.Len())

	ctx := context.Background()
	for _, want := range []string{"one", "two", "three"} {
		got, err := s.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, s.Len())
}

func TestSubscriber_NextWaitsForMessage(t *testing.T) {
	t.Parallel()

	s := newSubscriber(0)
	got := make(chan string, 1)
	go func() {
		msg, err := s.Next(context.Background())
		if err == nil {
			got <- msg
		}
	}()

	select {
	case <-got:
		t.Fatal("Next returned before a message was enqueued")
	case <-time.After(20 * time.Millisecond):
	}

	s.enqueue("late")

	select {
	case msg := <-got:
		assert.Equal(t, "late", msg)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after enqueue")
	}
}

func TestSubscriber_ContextCancellation(t *testing.T) {
	t.Parallel()

	t.Run("returns_context_error", func(t *testing.T) {
		t.Parallel()

		s := newSubscriber(0)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := s.Next(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("does_not_consume_message", func(t *testing.T) {
		t.Parallel()

		s := newSubscriber(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Next(ctx)
		require.ErrorIs(t, err, context.Canceled)

		s.enqueue("kept")
		msg, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "kept", msg)
	})
}

func TestSubscriber_Close(t *testing.T) {
	t.Parallel()

	t.Run("unblocks_waiting_consumer", func(t *testing.T) {
		t.Parallel()

		s := newSubscriber(0)
		errCh := make(chan error, 1)
		go func() {
			_, err := s.Next(context.Background())
			errCh <- err
		}()

		time.Sleep(10 * time.Millisecond)
		assert.True(t, s.close())

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, ErrSubscriberClosed)
		case <-time.After(time.Second):
			t.Fatal("Next did not return after close")
		}
	})

	t.Run("enqueue_after_close_is_discarded", func(t *testing.T) {
		t.Parallel()

		s := newSubscriber(0)
		s.close()

		assert.Equal(t, discarded, s.enqueue("ignored"))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("close_drops_pending_messages", func(t *testing.T) {
		t.Parallel()

		s := newSubscriber(0)
		s.enqueue("pending")
		s.close()

		_, err := s.Next(context.Background())
		assert.ErrorIs(t, err, ErrSubscriberClosed)
	})

	t.Run("second_close_reports_false", func(t *testing.T) {
		t.Parallel()

		s := newSubscriber(0)
		assert.True(t, s.close())
		assert.False(t, s.close())
	})
}

func TestSubscriber_QueueLimit(t *testing.T) {
	t.Parallel()

	s := newSubscriber(2)
	assert.Equal(t, enqueued, s.enqueue("a"))
	assert.Equal(t, enqueued, s.enqueue("b"))
	assert.Equal(t, dropped, s.enqueue("c"))

	msg, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", msg)

	assert.Equal(t, enqueued, s.enqueue("d"))
}
