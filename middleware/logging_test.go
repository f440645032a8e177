package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/response"
	"github.com/azim128/LiveDataStream/middleware"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func jsonLogger(w *syncBuffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs_completed_request", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newRouter(middleware.LoggingWithLogger[ctx](jsonLogger(&out)))
		r.Get("/health", func(c ctx) handler.Response { return text("ok") })

		do(r, httptest.NewRequest(http.MethodGet, "/health?verbose=1", nil))

		records := out.records(t)
		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "HTTP request completed", rec["msg"])
		assert.Equal(t, "INFO", rec["level"])
		assert.Equal(t, "GET", rec["method"])
		assert.Equal(t, "/health", rec["path"])
		assert.Equal(t, "verbose=1", rec["query"])
		assert.EqualValues(t, 200, rec["status_code"])
		assert.EqualValues(t, 2, rec["bytes_out"])
	})

	t.Run("error_status_comes_from_returned_error", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newRouter(middleware.LoggingWithLogger[ctx](jsonLogger(&out)))
		r.Post("/add-value", func(c ctx) handler.Response {
			return response.Error(response.ErrUnprocessableEntity)
		})

		rec := do(r, httptest.NewRequest(http.MethodPost, "/add-value", nil))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		records := out.records(t)
		require.Len(t, records, 1)
		assert.Equal(t, "WARN", records[0]["level"])
		assert.EqualValues(t, 422, records[0]["status_code"])
	})

	t.Run("server_errors_log_at_error", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newRouter(middleware.LoggingWithLogger[ctx](jsonLogger(&out)))
		r.Get("/", func(c ctx) handler.Response {
			return response.Error(response.ErrInternalServerError)
		})

		do(r, httptest.NewRequest(http.MethodGet, "/", nil))

		records := out.records(t)
		require.Len(t, records, 1)
		assert.Equal(t, "ERROR", records[0]["level"])
	})

	t.Run("skip_and_request_log", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newRouter(middleware.LoggingWithConfig[ctx](middleware.LoggingConfig{
			Logger:     jsonLogger(&out),
			LogRequest: true,
			LogHeaders: true,
			Skip: func(c handler.Context) bool {
				return c.Request().URL.Path == "/skip"
			},
		}))
		r.Get("/skip", func(c ctx) handler.Response { return text("ok") })
		r.Get("/logged", func(c ctx) handler.Response { return text("ok") })

		do(r, httptest.NewRequest(http.MethodGet, "/skip", nil))
		assert.Empty(t, out.records(t))

		req := httptest.NewRequest(http.MethodGet, "/logged", nil)
		req.Header.Set("Authorization", "Bearer secret")
		do(r, req)

		records := out.records(t)
		require.Len(t, records, 2)
		assert.Equal(t, "HTTP request started", records[0]["msg"])
		headers, ok := records[1]["request_headers"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "[REDACTED]", headers["Authorization"])
	})

	t.Run("preserves_flusher", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.LoggingWithLogger[ctx](jsonLogger(&syncBuffer{})))
		r.Get("/events", func(c ctx) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				f, ok := w.(http.Flusher)
				if !ok {
					return response.ErrInternalServerError
				}
				_, _ = w.Write([]byte("data: x\n\n"))
				f.Flush()
				return nil
			}
		})

		rec := do(r, httptest.NewRequest(http.MethodGet, "/events", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, rec.Flushed)
	})
}
