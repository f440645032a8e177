package livestream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/azim128/LiveDataStream/core/binder"
	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/core/response"
	"github.com/azim128/LiveDataStream/core/router"
	"github.com/azim128/LiveDataStream/pkg/async"
	"github.com/azim128/LiveDataStream/pkg/broadcast"
)

type submitRequest struct {
	Value *string `json:"value"`
}

type submitResponse struct {
	Message string `json:"message"`
}

var bindJSON = binder.JSON()

// submit stores the value and hands it to the notifier without waiting for
// delivery. A failed store is never broadcast.
func (a *App) submit(ctx *router.Context) handler.Response {
	var req submitRequest
	if err := bindJSON(ctx.Request(), &req); err != nil {
		return response.Error(bindError(err))
	}
	if req.Value == nil {
		return response.Error(response.ErrUnprocessableEntity.WithDetails(map[string]any{
			"value": "field required",
		}))
	}

	value := *req.Value
	if err := a.store.Store(ctx, value); err != nil {
		a.log.ErrorContext(ctx, "failed to store value",
			logger.Component("submit"),
			logger.Error(err))
		return response.Error(response.ErrInternalServerError.WithMessage("Failed to store value"))
	}

	async.Exec(context.WithoutCancel(ctx), value, a.notify)

	return response.JSON(submitResponse{Message: "Value added successfully"})
}

// notify runs detached from the request, so nothing else would report its
// failures. A panic is logged and returned as async.ErrPanic.
func (a *App) notify(ctx context.Context, value string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", async.ErrPanic, p)
			a.log.ErrorContext(ctx, "broadcast panicked",
				logger.Component("submit"),
				logger.Error(err),
				logger.Stack())
		}
	}()

	err = a.notifier.Publish(ctx, value)
	switch {
	case err == nil:
	case errors.Is(err, broadcast.ErrBroadcasterClosed):
		a.log.DebugContext(ctx, "value not broadcast, shutting down", logger.Component("submit"))
	default:
		a.log.ErrorContext(ctx, "failed to broadcast value",
			logger.Component("submit"),
			logger.Error(err))
	}
	return err
}

func bindError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return err
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return response.ErrUnsupportedMediaType.WithError(err)
	case errors.Is(err, binder.ErrInvalidFieldType):
		return response.ErrUnprocessableEntity.WithError(err)
	default:
		return response.ErrBadRequest.WithError(err)
	}
}

// events streams every value published after the request arrives as
// Server-Sent Events.
func (a *App) events(ctx *router.Context) handler.Response {
	sub, err := a.broadcaster.Subscribe()
	if err != nil {
		return response.Error(response.ErrServiceUnavailable.WithError(err))
	}

	log := a.log.With(logger.Component("events"), logger.SubscriberID(sub.ID()))
	log.DebugContext(ctx, "subscriber connected", logger.Subscribers(a.broadcaster.Len()))

	stream := response.SSE(sub,
		response.WithKeepAlive(a.cfg.SSEKeepAlive),
		response.WithSSEErrorHandler(func(ctx context.Context, err error) {
			log.DebugContext(ctx, "event stream write failed", logger.Error(err))
		}),
	)

	return func(w http.ResponseWriter, r *http.Request) error {
		defer func() {
			sub.Close()
			log.DebugContext(r.Context(), "subscriber disconnected", logger.Subscribers(a.broadcaster.Len()))
		}()
		return stream(w, r)
	}
}

// websocket pushes the same stream as events over a WebSocket connection.
func (a *App) websocket(ctx *router.Context) handler.Response {
	sub, err := a.broadcaster.Subscribe()
	if err != nil {
		return response.Error(response.ErrServiceUnavailable.WithError(err))
	}

	stream := response.WebSocketStream(sub,
		response.WithWSOriginCheck(a.allowOrigin),
		response.WithWSErrorHandler(func(ctx context.Context, err error) {
			a.log.DebugContext(ctx, "websocket stream failed",
				logger.Component("ws"),
				logger.SubscriberID(sub.ID()),
				logger.Error(err))
		}),
	)

	return func(w http.ResponseWriter, r *http.Request) error {
		defer sub.Close()
		return stream(w, r)
	}
}

func (a *App) allowOrigin(r *http.Request) bool {
	origins := a.cfg.CORSAllowOrigins
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(origins, origin)
}
