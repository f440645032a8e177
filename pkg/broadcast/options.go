package broadcast

import "log/slog"

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithLogger sets the logger for subscription lifecycle and delivery events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broadcaster) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver sets a hook that is notified about subscriptions and deliveries.
func WithObserver(o Observer) Option {
	return func(b *Broadcaster) {
		if o != nil {
			b.observer = o
		}
	}
}

// WithQueueLimit caps the number of undelivered messages per subscriber.
// Zero or a negative value keeps queues unbounded.
func WithQueueLimit(n int) Option {
	return func(b *Broadcaster) {
		if n < 0 {
			n = 0
		}
		b.queueLimit = n
	}
}
