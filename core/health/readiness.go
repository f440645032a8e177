package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/core/response"
)

// DefaultCheckTimeout bounds a single dependency check.
const DefaultCheckTimeout = 3 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// NewCheck is shorthand for Check{Name: name, Fn: fn}.
func NewCheck(name string, fn func(context.Context) error) Check {
	return Check{Name: name, Fn: fn}
}

// Readiness runs every check and responds {"status":"ready"} when all pass.
// If any check fails it responds 503 with the per-check results in details.
//
// Example:
//
//	r.Get("/health/ready", health.Readiness[*router.Context](
//		logger,
//		health.NewCheck("postgres", pg.Healthcheck(pool)),
//		health.NewCheck("redis", redis.Healthcheck(client)),
//	))
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(ctx C) handler.Response {
		results := make(map[string]string, len(checks))
		healthy := true

		for _, check := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, DefaultCheckTimeout)
			err := check.Fn(checkCtx)
			cancel()

			if err != nil {
				healthy = false
				results[check.Name] = "unavailable"
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component(check.Name),
					logger.Error(err))
				continue
			}
			results[check.Name] = "ok"
		}

		if !healthy {
			details := make(map[string]any, len(results))
			for name, result := range results {
				details[name] = result
			}
			return response.Error(response.ErrServiceUnavailable.WithDetails(details))
		}

		return response.JSON(Status{Status: "ready", Checks: results})
	}
}
