package broadcast

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync"
)

// Observer receives notifications about broadcaster activity.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	SubscriberAdded()
	SubscriberRemoved()
	MessagePublished(delivered int)
	MessageDropped()
}

type noopObserver struct{}

func (noopObserver) SubscriberAdded()     {}
func (noopObserver) SubscriberRemoved()   {}
func (noopObserver) MessagePublished(int) {}
func (noopObserver) MessageDropped()      {}

// Broadcaster delivers every published message to all registered subscribers.
// Safe for concurrent use.
type Broadcaster struct {
	registry   *Registry
	logger     *slog.Logger
	observer   Observer
	queueLimit int

	// mu orders Close against Subscribe so no subscriber registers after Close.
	mu     sync.RWMutex
	closed bool
}

// New creates a Broadcaster with unbounded subscriber queues and a no-op logger.
func New(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: noopObserver{},
		registry: NewRegistry(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Publish enqueues msg to every currently registered subscriber.
// It never waits for consumers. Publishing with no subscribers is not an error.
// Returns ErrBroadcasterClosed after Close.
func (b *Broadcaster) Publish(msg string) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBroadcasterClosed
	}

	subs := b.registry.Snapshot()
	delivered := 0
	for _, s := range subs {
		switch s.enqueue(msg) {
		case enqueued:
			delivered++
		case dropped:
			b.observer.MessageDropped()
			b.logger.Warn("subscriber queue full, message dropped",
				slog.String("subscriber_id", s.ID().String()),
				slog.Int("queue_limit", b.queueLimit),
			)
		case discarded:
			// Subscriber closed after the snapshot was taken.
		}
	}

	b.observer.MessagePublished(delivered)
	b.logger.Debug("message published",
		slog.Int("subscribers", len(subs)),
		slog.Int("delivered", delivered),
	)
	return nil
}

// Subscribe registers a new subscriber and returns its subscription.
// Messages published after Subscribe returns are delivered to it.
// The caller must Close the subscription, or fully consume one of its sequences.
func (b *Broadcaster) Subscribe() (*Subscription, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrBroadcasterClosed
	}

	s := newSubscriber(b.queueLimit)
	b.registry.Register(s)
	b.observer.SubscriberAdded()

	b.logger.Debug("subscriber registered",
		slog.String("subscriber_id", s.ID().String()),
		slog.Int("subscribers", b.registry.Len()),
	)

	return &Subscription{sub: s, b: b}, nil
}

// Stream subscribes when iteration starts and yields event-stream frames
// until ctx is done, the loop breaks, or the broadcaster closes.
// The subscriber is always unregistered when iteration ends.
func (b *Broadcaster) Stream(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		sub, err := b.Subscribe()
		if err != nil {
			return
		}
		for frame := range sub.Frames(ctx) {
			if !yield(frame) {
				return
			}
		}
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	return b.registry.Len()
}

// Close closes every subscriber and rejects further Publish and Subscribe calls.
// Active streams end with ErrSubscriberClosed. Safe to call multiple times.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	subs := b.registry.drain()
	for _, s := range subs {
		s.close()
		b.observer.SubscriberRemoved()
	}

	b.logger.Info("broadcaster closed", slog.Int("subscribers_closed", len(subs)))
	return nil
}

// release unregisters and closes s. Safe to call for subscribers already
// removed by Close.
func (b *Broadcaster) release(s *Subscriber) {
	removed := b.registry.Unregister(s)
	s.close()
	if !removed {
		return
	}

	b.observer.SubscriberRemoved()
	b.logger.Debug("subscriber unregistered",
		slog.String("subscriber_id", s.ID().String()),
		slog.Int("subscribers", b.registry.Len()),
	)
}
