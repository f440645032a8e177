// Package response provides handler.Response constructors: plain text and JSON
// bodies, a structured HTTPError taxonomy with error handlers, and long-lived
// streaming responses over Server-Sent Events and WebSocket.
//
// # Basic Usage
//
//	func health(ctx handler.Context) handler.Response {
//		return response.JSON(map[string]string{"status": "ok"})
//	}
//
// # Errors
//
// Handlers return errors through Error. HTTPError values carry their own status
// and machine-readable code; any other error becomes a 500 unless it exposes a
// StatusCode() int method. JSONErrorHandler renders them as
//
//	{"code":"unprocessable_entity","message":"value must be a string"}
//
// and is meant to be installed as the router's error handler:
//
//	r := router.New(router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
//
//	return response.Error(response.ErrUnprocessableEntity.WithMessage("value must be a string"))
//
// # Server-Sent Events
//
// SSE streams pre-encoded frames from a FrameSource until the source reports an
// error or the client goes away. While the source is idle for the keep-alive
// interval, a ": keepalive" comment is written so proxies keep the connection
// open. The server's write deadline is lifted for the duration of the stream.
//
//	return func(w http.ResponseWriter, r *http.Request) error {
//		sub, err := broadcaster.Subscribe()
//		if err != nil {
//			return response.ErrServiceUnavailable
//		}
//		defer sub.Close()
//		return response.SSE(sub, response.WithKeepAlive(15*time.Second))(w, r)
//	}
//
// # WebSocket
//
// WebSocket upgrades the connection and hands it to a callback; WebSocketStream
// is the push-only variant that writes every message of a MessageSource as a
// text frame and sends pings while idle.
package response
