// Package broadcast provides in-memory fan-out of text messages to live subscribers.
//
// The package is the event core of a streaming service: every connected client
// owns one Subscriber, the Registry tracks which subscribers are currently
// deliverable, and the Broadcaster publishes each message to a snapshot of the
// registry.
//
// # Architecture
//
//   - Subscriber: an unbounded FIFO queue with a single consumer
//   - Registry: the concurrency-safe set of live subscribers
//   - Broadcaster: publishes to all registered subscribers and hands out subscriptions
//   - Subscription: the scoped lifetime of one subscriber (register on open, unregister on close)
//
// # Usage
//
//	b := broadcast.New(broadcast.WithLogger(log))
//	defer b.Close()
//
//	sub, err := b.Subscribe()
//	if err != nil {
//		return err
//	}
//	defer sub.Close()
//
//	go b.Publish("hello")
//
//	for frame := range sub.Frames(ctx) {
//		fmt.Print(frame) // "data: hello\n\n"
//	}
//
// Stream combines both steps and registers lazily when iteration starts:
//
//	for frame := range b.Stream(r.Context()) {
//		w.Write([]byte(frame))
//	}
//
// # Delivery Semantics
//
// Publish never waits for a consumer. Each subscriber has its own queue, so a
// stalled client cannot delay delivery to the others. Messages published
// before a subscriber registers are never delivered to it, and each
// subscriber observes messages in publish order.
//
// Queues are unbounded by default. WithQueueLimit caps each queue; once a
// subscriber reaches the cap, new messages are dropped for that subscriber
// only.
//
// # Cancellation
//
// A subscription ends when its consumer stops reading: the context passed to
// Next, Messages or Frames is cancelled, the range loop breaks, or Close is
// called. Close is idempotent and safe to call from any goroutine. A publish
// that raced with Close and still holds the subscriber in its snapshot is
// silently discarded.
//
// # Errors
//
//   - ErrBroadcasterClosed: Publish or Subscribe after Close
//   - ErrSubscriberClosed: Next on a closed subscriber
//
// Cancellation is reported as the context error and is the routine way a
// stream ends.
package broadcast
