// Package router routes requests to type-safe handlers.
//
// Path matching, parameter extraction and sub-router mounting are delegated to
// chi; this package layers the handler model from core/handler on top: each
// matched request gets a typed context C, handler middleware runs in
// registration order, and any error returned by a Response is passed to a
// single ErrorHandler.
//
// # Basic Usage
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//		router.WithHTTPMiddleware[*router.Context](chimw.StripSlashes),
//	)
//
//	r.Get("/health", func(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"status": "ok"})
//	})
//
//	r.Get("/values/{id}", func(ctx *router.Context) handler.Response {
//		return response.String(ctx.Param("id"))
//	})
//
//	http.ListenAndServe(":8000", r)
//
// # Custom Contexts
//
// Routers are generic over the context type. *router.Context works without
// configuration; any other type needs a factory:
//
//	r := router.New[*AppContext](router.WithContextFactory(newAppContext))
//
// # Middleware
//
// Handler middleware (handler.Middleware[C]) is attached with Use, With and
// Group and is captured when a route is registered, so routes only see the
// middleware declared before them. Plain net/http middleware that must run
// before routing, such as slash stripping, is installed with
// WithHTTPMiddleware.
//
//	r.Use(middleware.RequestID[*router.Context]())
//
//	r.Group(func(r router.Router[*router.Context]) {
//		r.Use(middleware.RateLimit[*router.Context](limiter))
//		r.Post("/add-value", submit)
//	})
//
// # Errors and Panics
//
// Unknown paths produce ErrNotFound and known paths with the wrong method
// produce ErrMethodNotAllowed; both go through the ErrorHandler. A panic inside
// a handler is recovered and reported as a PanicError. When the response has
// already started (a stream, for instance) the error handler is skipped and
// the panic is logged instead.
package router
