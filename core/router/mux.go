package router

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/azim128/LiveDataStream/core/handler"
)

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	root            chi.Router // top-level chi mux, serves every request
	chi             chi.Router // where this router registers routes
	middlewares     []handler.Middleware[C]
	httpMiddlewares []func(http.Handler) http.Handler
	errorHandler    handler.ErrorHandler[C]
	newContext      func(http.ResponseWriter, *http.Request, map[string]string) C
	logger          *slog.Logger
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context works without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	root := chi.NewRouter()
	root.Use(m.httpMiddlewares...)
	root.NotFound(m.failWith(ErrNotFound))
	root.MethodNotAllowed(m.failWith(ErrMethodNotAllowed))

	m.root = root
	m.chi = root
	return m
}

// derive returns a router that shares configuration with m but registers
// routes on r with its own copy of the middleware stack.
func (m *mux[C]) derive(r chi.Router, middlewares ...handler.Middleware[C]) *mux[C] {
	return &mux[C]{
		root:         m.root,
		chi:          r,
		middlewares:  append(slices.Clone(m.middlewares), middlewares...),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.root.ServeHTTP(w, r)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Get(pattern, m.endpoint(h))
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Post(pattern, m.endpoint(h))
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Put(pattern, m.endpoint(h))
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Delete(pattern, m.endpoint(h))
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Patch(pattern, m.endpoint(h))
}

func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Head(pattern, m.endpoint(h))
}

func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Options(pattern, m.endpoint(h))
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.chi.Handle(pattern, m.endpoint(h))
}

func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	ep := m.endpoint(h)
	for _, method := range methods {
		m.chi.Method(method, pattern, ep)
	}
}

// Use appends handler middleware. Only routes registered afterwards see it.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return m.derive(m.chi.With(), middlewares...)
}

func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	g := m.derive(m.chi.With())
	if fn != nil {
		fn(g)
	}
	return g
}

func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	sub := m.derive(chi.NewRouter())
	if fn != nil {
		fn(sub)
	}
	m.chi.Mount(pattern, sub.chi)
	return sub
}

func (m *mux[C]) Mount(pattern string, h http.Handler) {
	m.chi.Mount(pattern, h)
}

// Routes lists registered routes, including those of mounted chi routers.
func (m *mux[C]) Routes() []Route {
	var routes []Route
	_ = chi.Walk(m.chi, func(method, pattern string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: pattern})
		return nil
	})
	return routes
}

// endpoint adapts h, wrapped in the middleware registered so far, to net/http.
func (m *mux[C]) endpoint(h handler.HandlerFunc[C]) http.HandlerFunc {
	fn := handler.Chain(h, m.middlewares...)

	return func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := m.newContext(ww, r, urlParams(r))

		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{
					value: p,
					stack: debug.Stack(),
				}

				if ww.Written() {
					m.logger.Error("panic after response written",
						"value", panicErr.value,
						"stack", string(panicErr.stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.Status(),
					)
					return
				}
				m.errorHandler(ctx, panicErr)
			}
		}()

		response := fn(ctx)
		if response == nil {
			m.errorHandler(ctx, ErrNilResponse)
			return
		}

		if err := response(ww, ctx.Request()); err != nil {
			m.errorHandler(ctx, err)
		}
	}
}

func (m *mux[C]) failWith(err error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		m.errorHandler(m.newContext(ww, r, nil), err)
	}
}

func urlParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}
