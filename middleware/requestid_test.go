package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates_uuid", func(t *testing.T) {
		t.Parallel()

		var seen string
		r := newRouter(middleware.RequestID[ctx]())
		r.Get("/", func(c ctx) handler.Response {
			seen, _ = middleware.GetRequestID(c)
			return text("ok")
		})

		rec := do(r, httptest.NewRequest(http.MethodGet, "/", nil))

		header := rec.Header().Get("X-Request-ID")
		assert.Equal(t, seen, header)
		_, err := uuid.Parse(header)
		assert.NoError(t, err)
	})

	t.Run("ignores_client_id_by_default", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.RequestID[ctx]())
		r.Get("/", func(c ctx) handler.Response { return text("ok") })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-id")
		rec := do(r, req)

		assert.NotEqual(t, "client-id", rec.Header().Get("X-Request-ID"))
	})

	t.Run("uses_existing_when_configured", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
			UseExisting: true,
			HeaderName:  "X-Trace",
		}))
		r.Get("/", func(c ctx) handler.Response { return text("ok") })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace", "trace-1")
		rec := do(r, req)

		assert.Equal(t, "trace-1", rec.Header().Get("X-Trace"))
	})

	t.Run("missing_without_middleware", func(t *testing.T) {
		t.Parallel()

		_, ok := middleware.GetRequestID(context.Background())
		assert.False(t, ok)
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)

	r := newRouter(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
		Generator: func() string { return "fixed-id" },
	}))
	r.Get("/", func(c ctx) handler.Response {
		log.InfoContext(c, "handled")
		return text("ok")
	})

	do(r, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotZero(t, buf.Len())
	assert.Contains(t, buf.String(), `"request_id":"fixed-id"`)

	buf.Reset()
	log.Log(context.Background(), slog.LevelInfo, "no request")
	assert.NotContains(t, buf.String(), "request_id")
}
