package response

import (
	"context"
	"errors"
	"time"
)

// FrameSource yields pre-encoded Server-Sent Events frames.
// NextFrame blocks until a frame is available or ctx is done.
type FrameSource interface {
	NextFrame(ctx context.Context) (string, error)
}

// MessageSource yields raw messages for WebSocket delivery.
type MessageSource interface {
	Next(ctx context.Context) (string, error)
}

// errIdle means the source produced nothing within the keep-alive interval.
var errIdle = errors.New("stream idle")

// nextOrIdle waits on next for at most interval. A zero interval waits for as
// long as ctx lives. When the interval elapses while ctx is still alive it
// returns errIdle, which callers answer with a keep-alive.
func nextOrIdle(ctx context.Context, interval time.Duration, next func(context.Context) (string, error)) (string, error) {
	if interval <= 0 {
		return next(ctx)
	}

	waitCtx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()

	v, err := next(waitCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return "", errIdle
	}
	return v, err
}
