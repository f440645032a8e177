// Package metrics exposes Prometheus collectors for the broadcaster and the
// HTTP layer, plus a /metrics handler bound to a private registry.
//
//	reg := metrics.NewRegistry()
//	hub := broadcast.New(broadcast.WithObserver(metrics.NewBroadcastMetrics(reg)))
//	httpMetrics := metrics.NewHTTPMetrics(reg)
//
//	r := router.New[*router.Context](
//		router.WithHTTPMiddleware[*router.Context](httpMetrics.Middleware),
//	)
//	r.Mount("/metrics", metrics.Handler(reg))
package metrics
