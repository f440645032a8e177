package response

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/azim128/LiveDataStream/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

const sseKeepAliveFrame = ": keepalive\n\n"

type sseConfig struct {
	reconnect int
	keepAlive time.Duration
	onError   func(context.Context, error)
}

// EventOption configures Server-Sent Events behavior.
type EventOption func(*sseConfig)

// WithReconnectTime sends a retry field advising clients how many
// milliseconds to wait before reconnecting.
func WithReconnectTime(milliseconds int) EventOption {
	return func(s *sseConfig) {
		s.reconnect = milliseconds
	}
}

// WithKeepAlive sets the keep-alive interval. Zero or negative disables it.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(s *sseConfig) {
		s.keepAlive = max(interval, 0)
	}
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() EventOption {
	return WithKeepAlive(0)
}

// WithSSEErrorHandler sets an error handler for SSE streaming errors.
// The handler receives the request context and error for logging or monitoring.
func WithSSEErrorHandler(handler func(context.Context, error)) EventOption {
	return func(s *sseConfig) {
		s.onError = handler
	}
}

// SSE creates a Server-Sent Events response that writes every frame produced
// by source, flushing after each one. The stream ends without error when the
// source fails (for example because it was closed), when the client
// disconnects, or when a write fails.
func SSE(source FrameSource, opts ...EventOption) handler.Response {
	cfg := &sseConfig{
		keepAlive: DefaultSSEKeepAlive,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, req *http.Request) error {
		ctx := req.Context()

		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrInternalServerError.WithMessage("streaming unsupported")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		// The server-wide write timeout would cut the stream.
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			cfg.report(ctx, fmt.Errorf("failed to clear write deadline: %w", err))
		}

		w.WriteHeader(http.StatusOK)

		if cfg.reconnect > 0 {
			if _, err := fmt.Fprintf(w, "retry: %d\n\n", cfg.reconnect); err != nil {
				cfg.report(ctx, fmt.Errorf("failed to write retry field: %w", err))
				return nil
			}
		}
		flusher.Flush()

		for {
			frame, err := nextOrIdle(ctx, cfg.keepAlive, source.NextFrame)
			switch {
			case errors.Is(err, errIdle):
				frame = sseKeepAliveFrame
			case err != nil:
				return nil
			}

			if _, err := io.WriteString(w, frame); err != nil {
				cfg.report(ctx, fmt.Errorf("failed to write event: %w", err))
				return nil
			}
			flusher.Flush()
		}
	}
}

func (c *sseConfig) report(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}
