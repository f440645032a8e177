package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/core/handler"
)

type testContext struct {
	context.Context
	r *http.Request
	w http.ResponseWriter
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }
func (c *testContext) SetValue(any, any)                   {}

func TestChain(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) handler.Middleware[*testContext] {
		return func(next handler.HandlerFunc[*testContext]) handler.HandlerFunc[*testContext] {
			return func(ctx *testContext) handler.Response {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	final := func(ctx *testContext) handler.Response {
		order = append(order, "handler")
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
	}

	h := handler.Chain(final, mw("first"), mw("second"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := &testContext{Context: req.Context(), r: req, w: rec}

	require.NoError(t, h(ctx)(rec, req))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChain_ShortCircuit(t *testing.T) {
	t.Parallel()

	called := false
	final := func(ctx *testContext) handler.Response {
		called = true
		return nil
	}
	deny := func(next handler.HandlerFunc[*testContext]) handler.HandlerFunc[*testContext] {
		return func(ctx *testContext) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusForbidden)
				return nil
			}
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := &testContext{Context: req.Context(), r: req, w: rec}

	require.NoError(t, handler.Chain(final, deny)(ctx)(rec, req))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
