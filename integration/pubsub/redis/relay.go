package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/pkg/broadcast"
)

// DefaultChannel is the channel used when none is configured.
const DefaultChannel = "livestream:values"

// ErrEmptyChannel is returned by New for a blank channel name.
var ErrEmptyChannel = errors.New("relay channel name is empty")

// Sink receives messages read from the channel. *broadcast.Broadcaster
// satisfies it.
type Sink interface {
	Publish(msg string) error
}

// Relay publishes values to a Redis channel and forwards everything that
// arrives on that channel to a local Sink, so that every instance sharing
// the channel delivers every value.
type Relay struct {
	client  goredis.UniversalClient
	channel string
	sink    Sink
	log     *slog.Logger
	ready   chan struct{}
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a relay over client. Run must be started for messages to
// reach sink.
func New(client goredis.UniversalClient, channel string, sink Sink, opts ...Option) (*Relay, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	r := &Relay{
		client:  client,
		channel: channel,
		sink:    sink,
		log:     slog.New(slog.DiscardHandler),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Publish sends msg to the channel. Delivery to local subscribers happens
// when the message comes back through Run.
func (r *Relay) Publish(ctx context.Context, msg string) error {
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	return nil
}

// Ready is closed once Run holds a confirmed subscription.
func (r *Relay) Ready() <-chan struct{} {
	return r.ready
}

// Run subscribes to the channel and forwards messages to the sink until ctx
// is done or the sink is closed. go-redis reconnects dropped subscriptions
// on its own.
func (r *Relay) Run(ctx context.Context) error {
	ps := r.client.Subscribe(ctx, r.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("relay subscribe %q: %w", r.channel, err)
	}
	close(r.ready)

	log := r.log.With(logger.Component("relay"), logger.Channel(r.channel))
	log.InfoContext(ctx, "relay subscribed")

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "relay stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := r.sink.Publish(msg.Payload); err != nil {
				if errors.Is(err, broadcast.ErrBroadcasterClosed) {
					log.InfoContext(ctx, "relay sink closed")
					return nil
				}
				log.ErrorContext(ctx, "relay forward failed", logger.Error(err))
			}
		}
	}
}

// Start runs the relay until ctx is done and returns a function that
// reports Run's result, for use with errgroup.
func (r *Relay) Start(ctx context.Context) func() error {
	return func() error {
		return r.Run(ctx)
	}
}
