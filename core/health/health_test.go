package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/core/health"
	"github.com/azim128/LiveDataStream/core/response"
	"github.com/azim128/LiveDataStream/core/router"
)

func newRouter() router.Router[*router.Context] {
	return router.New[*router.Context](
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
	)
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	r := newRouter()
	r.Get("/health", health.Liveness[*router.Context])

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	r := newRouter()
	r.Get("/ping", health.NoContent[*router.Context])

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all_checks_pass", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		r.Get("/ready", health.Readiness[*router.Context](nil,
			health.NewCheck("postgres", ok),
			health.NewCheck("redis", ok),
		))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok","redis":"ok"}}`, rec.Body.String())
	})

	t.Run("no_checks", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		r.Get("/ready", health.Readiness[*router.Context](nil))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("failing_check_returns_503", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		r.Get("/ready", health.Readiness[*router.Context](nil,
			health.NewCheck("postgres", ok),
			health.NewCheck("redis", failing),
		))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "service_unavailable", body.Code)
		assert.Equal(t, map[string]string{"postgres": "ok", "redis": "unavailable"}, body.Details)
	})

	t.Run("check_receives_deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		r := newRouter()
		r.Get("/ready", health.Readiness[*router.Context](nil,
			health.NewCheck("db", func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			}),
		))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, hasDeadline)
	})
}
