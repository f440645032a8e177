// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: process is running, responds {"status":"ok"}
//   - Readiness: all named dependency checks pass, 503 otherwise
//   - NoContent: returns 204 for minimal overhead
//
// Usage:
//
//	r.Get("/health", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](
//		logger,
//		health.NewCheck("postgres", pg.Healthcheck(pool)),
//	))
//
// Readiness failures are returned as response.ErrServiceUnavailable so the
// router's error handler renders them.
package health
