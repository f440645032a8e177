// Package logger builds slog loggers and provides attribute helpers.
//
//	log := logger.New(
//		logger.WithProduction("livestream"),
//		logger.WithContextExtractors(requestIDFromContext),
//	)
//
//	log.Info("subscriber connected",
//		logger.Component("broadcast"),
//		logger.SubscriberID(id),
//		logger.Subscribers(n),
//	)
//
// Helpers such as Error, RequestID and SubscriberID return an empty attribute
// for nil or empty input, so they can be passed unconditionally.
//
// ParseLevel converts LOG_LEVEL style strings (debug, info, warn, error) into
// slog levels.
package logger
