package broadcast

import (
	"context"
	"iter"
	"sync"
)

// Subscription is the scoped lifetime of one registered subscriber.
// It is connected from Subscribe until Close; Close unregisters exactly once.
type Subscription struct {
	sub  *Subscriber
	b    *Broadcaster
	once sync.Once
}

// ID returns the subscriber identifier as a string.
func (s *Subscription) ID() string {
	return s.sub.ID().String()
}

// Subscriber returns the underlying queue.
func (s *Subscription) Subscriber() *Subscriber {
	return s.sub
}

// Next waits for the next message. See Subscriber.Next.
func (s *Subscription) Next(ctx context.Context) (string, error) {
	return s.sub.Next(ctx)
}

// NextFrame waits for the next message and returns it as an event-stream frame.
func (s *Subscription) NextFrame(ctx context.Context) (string, error) {
	msg, err := s.sub.Next(ctx)
	if err != nil {
		return "", err
	}
	return Frame(msg), nil
}

// Done is closed once the subscription is closed.
func (s *Subscription) Done() <-chan struct{} {
	return s.sub.done
}

// Close unregisters the subscriber and discards any queued messages.
// Idempotent and safe for concurrent use.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.b.release(s.sub)
	})
}

// Messages yields raw messages until ctx is done, the loop breaks, or the
// subscription is closed. The subscription is closed when iteration ends.
func (s *Subscription) Messages(ctx context.Context) iter.Seq[string] {
	return s.seq(ctx, s.Next)
}

// Frames is like Messages but yields event-stream frames.
func (s *Subscription) Frames(ctx context.Context) iter.Seq[string] {
	return s.seq(ctx, s.NextFrame)
}

func (s *Subscription) seq(ctx context.Context, next func(context.Context) (string, error)) iter.Seq[string] {
	return func(yield func(string) bool) {
		defer s.Close()
		for {
			v, err := next(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
