// Package handler defines the request-processing model shared by the router,
// the response helpers and the middleware packages.
//
// A handler receives a typed request context and returns a Response, a deferred
// render function. Separating the decision (what to answer) from the rendering
// (how to write it) lets middleware inspect or replace a response before
// anything reaches the wire, and lets long-lived responses such as event streams
// own the connection until they return.
//
//	import "github.com/azim128/LiveDataStream/core/handler"
//
//	type Response func(w http.ResponseWriter, r *http.Request) error
//	type HandlerFunc[C Context] func(ctx C) Response
//	type ErrorHandler[C Context] func(ctx C, err error)
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// # Context
//
// Context embeds context.Context, so cancellation of the underlying request
// propagates to anything the handler starts with it:
//
//	func health(ctx handler.Context) handler.Response {
//		return func(w http.ResponseWriter, r *http.Request) error {
//			w.Header().Set("Content-Type", "application/json")
//			_, err := w.Write([]byte(`{"status":"ok"}`))
//			return err
//		}
//	}
//
// # Middleware
//
// Middleware wraps a HandlerFunc and may short-circuit by returning its own
// Response:
//
//	func requireJSON[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				if ctx.Request().Header.Get("Content-Type") != "application/json" {
//					return response.Error(response.ErrUnsupportedMediaType)
//				}
//				return next(ctx)
//			}
//		}
//	}
//
// # Errors
//
// A Response that returns an error hands it to the router's ErrorHandler, which
// decides status code and body. Responses that have already written headers
// (streams) should report failures through their own hooks and return nil.
package handler
