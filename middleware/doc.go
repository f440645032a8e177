// Package middleware provides cross-cutting HTTP concerns for the router.
//
// Most middleware is generic over handler.Context and is attached with
// router.WithMiddleware, Use or With:
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*router.Context](),
//			middleware.ClientIP[*router.Context](),
//			middleware.SecurityHeaders[*router.Context](),
//			middleware.LoggingWithLogger[*router.Context](log),
//		),
//	)
//	r.With(
//		middleware.BodyLimitWithSize[*router.Context](middleware.MB),
//		middleware.RateLimit[*router.Context](middleware.RateLimitConfig{Limiter: limiter}),
//	).Post("/add-value", submit)
//
// CORS is plain net/http middleware. It has to run before routing so that
// preflight requests are answered for routes without an OPTIONS handler:
//
//	router.WithHTTPMiddleware[*router.Context](middleware.CORS(middleware.CORSConfig{}))
//
// Values stored by middleware are read back with GetRequestID and
// GetClientIP. RequestIDExtractor plugs the request id into core/logger.
package middleware
