package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/azim128/LiveDataStream/core/handler"
)

// DefaultWSPingInterval is how long a WebSocket stream may stay idle before a ping.
const DefaultWSPingInterval = 30 * time.Second

const wsWriteWait = 10 * time.Second

type wsConfig struct {
	upgrader     *websocket.Upgrader
	pingInterval time.Duration
	onConnect    func(context.Context, *websocket.Conn) error
	onDisconnect func(context.Context, *websocket.Conn)
	onError      func(context.Context, error)
}

type WebSocketOption func(*wsConfig)

func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSPingInterval sets how long WebSocketStream waits for a message before
// sending a ping. Zero disables pings.
func WithWSPingInterval(interval time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.pingInterval = max(interval, 0)
	}
}

func WithWSOnConnect(fn func(context.Context, *websocket.Conn) error) WebSocketOption {
	return func(c *wsConfig) {
		c.onConnect = fn
	}
}

func WithWSOnDisconnect(fn func(context.Context, *websocket.Conn)) WebSocketOption {
	return func(c *wsConfig) {
		c.onDisconnect = fn
	}
}

func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WebSocket upgrades the connection and runs messageHandler until it returns.
// Failures after the upgrade go to the error hook, never to the router.
func WebSocket(messageHandler func(context.Context, *websocket.Conn) error, opts ...WebSocketOption) handler.Response {
	cfg := newWSConfig(opts)

	return cfg.response(messageHandler)
}

// WebSocketStream pushes every message of source to the client as a text frame.
// Incoming client messages are discarded; a close frame or read error from the
// client ends the stream.
func WebSocketStream(source MessageSource, opts ...WebSocketOption) handler.Response {
	cfg := newWSConfig(opts)

	return cfg.response(func(ctx context.Context, conn *websocket.Conn) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Hijacked connections are not watched by net/http, so reading is the
		// only way to notice the peer leaving.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		for {
			msg, err := nextOrIdle(ctx, cfg.pingInterval, source.Next)
			switch {
			case errors.Is(err, errIdle):
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return err
				}
				continue
			case err != nil:
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(wsWriteWait),
				)
				return nil
			}

			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}
		}
	})
}

func newWSConfig(opts []WebSocketOption) *wsConfig {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval: DefaultWSPingInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (cfg *wsConfig) response(run func(context.Context, *websocket.Conn) error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := cfg.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied to the client.
			cfg.report(r.Context(), err)
			return nil
		}
		defer func() {
			_ = conn.Close()
			if cfg.onDisconnect != nil {
				cfg.onDisconnect(r.Context(), conn)
			}
		}()

		if cfg.onConnect != nil {
			if err := cfg.onConnect(r.Context(), conn); err != nil {
				cfg.report(r.Context(), err)
				return nil
			}
		}

		if err := run(r.Context(), conn); err != nil && !isExpectedClose(err) {
			cfg.report(r.Context(), err)
		}
		return nil
	}
}

func (cfg *wsConfig) report(ctx context.Context, err error) {
	if cfg.onError != nil {
		cfg.onError(ctx, err)
	}
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, context.Canceled)
}
