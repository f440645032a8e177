package middleware

import (
	"fmt"
	"net/http"

	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/response"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// DefaultBodyLimit is used when no size is configured.
const DefaultBodyLimit = 1 * MB

// BodyLimitConfig configures the request body size middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// MaxSize is the maximum allowed size in bytes (default: 1MB)
	MaxSize int64
}

// BodyLimit caps request bodies at DefaultBodyLimit.
func BodyLimit[C handler.Context]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

// BodyLimitWithSize caps request bodies at maxSize bytes.
func BodyLimitWithSize[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the limit
// with 413 and wraps the body in http.MaxBytesReader for chunked uploads.
// Handlers see *http.MaxBytesError when they read past the limit.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultBodyLimit
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			if req.ContentLength > cfg.MaxSize {
				return response.Error(TooLarge(cfg.MaxSize))
			}

			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, cfg.MaxSize)
			}

			return next(ctx)
		}
	}
}

// TooLarge builds the 413 error reported for a body over limit bytes.
func TooLarge(limit int64) response.HTTPError {
	return response.ErrRequestEntityTooLarge.
		WithMessage(fmt.Sprintf("Request body too large. Maximum allowed: %s", formatBytes(limit))).
		WithDetails(map[string]any{"limit": limit})
}

func formatBytes(bytes int64) string {
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
