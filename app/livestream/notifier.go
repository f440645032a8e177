package livestream

import (
	"context"
	"log/slog"

	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/pkg/broadcast"
)

// Notifier delivers a stored value to stream subscribers.
type Notifier interface {
	Publish(ctx context.Context, msg string) error
}

// localNotifier publishes straight to the in-process broadcaster.
type localNotifier struct {
	b *broadcast.Broadcaster
}

func (n localNotifier) Publish(_ context.Context, msg string) error {
	return n.b.Publish(msg)
}

// relayNotifier sends values through the cross-instance relay. When the relay
// rejects a value it is delivered to this instance's subscribers directly,
// since it never reached the channel the relay would echo it back from.
type relayNotifier struct {
	relay Notifier
	local *broadcast.Broadcaster
	log   *slog.Logger
}

func (n relayNotifier) Publish(ctx context.Context, msg string) error {
	err := n.relay.Publish(ctx, msg)
	if err == nil {
		return nil
	}

	n.log.WarnContext(ctx, "relay publish failed, delivering locally",
		logger.Component("relay"),
		logger.Error(err))
	return n.local.Publish(msg)
}
