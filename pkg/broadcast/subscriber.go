package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type enqueueResult int

const (
	enqueued enqueueResult = iota
	discarded
	dropped
)

// Subscriber is a per-connection FIFO message queue with a single consumer.
// Enqueueing never blocks; the queue grows until the consumer catches up,
// unless a limit was configured.
type Subscriber struct {
	id    uuid.UUID
	limit int

	mu     sync.Mutex
	queue  []string
	closed bool

	// wake holds at most one pending signal; Next re-checks the queue after every wake.
	wake chan struct{}
	done chan struct{}
}

func newSubscriber(limit int) *Subscriber {
	return &Subscriber{
		id:    uuid.New(),
		limit: limit,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// ID returns the unique subscriber identifier.
func (s *Subscriber) ID() uuid.UUID {
	return s.id
}

// Len returns the number of queued, undelivered messages.
func (s *Subscriber) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Next blocks until a message is available and returns it.
// Returns ErrSubscriberClosed once the subscriber is closed, even if messages
// are still queued, and ctx.Err() if the context ends first. A wait that ends
// by context does not consume a message.
func (s *Subscriber) Next(ctx context.Context) (string, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return "", ErrSubscriberClosed
		}
		if len(s.queue) > 0 {
			msg := s.queue[0]
			s.queue[0] = ""
			s.queue = s.queue[1:]
			if len(s.queue) == 0 {
				s.queue = nil
			}
			s.mu.Unlock()
			return msg, nil
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-s.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (s *Subscriber) enqueue(msg string) enqueueResult {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return discarded
	}
	if s.limit > 0 && len(s.queue) >= s.limit {
		s.mu.Unlock()
		return dropped
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return enqueued
}

// close marks the subscriber closed and releases its queue.
// Reports whether this call performed the transition.
func (s *Subscriber) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.closed = true
	s.queue = nil
	close(s.done)
	return true
}
