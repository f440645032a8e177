// Package server wraps http.Server with functional options, graceful shutdown
// and errgroup-friendly lifecycle management.
//
// # Basic Usage
//
//	srv := server.New(":8000",
//		server.WithLogger(logger),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration
//
// Config carries env tags and can be loaded with the config package:
//
//	cfg := config.MustLoad[server.Config]()
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(logger))
//
// TLS is enabled when both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set.
//
// # Long-lived Connections
//
// http.Server.Shutdown does not interrupt active handlers. Streaming handlers
// must be told to stop, which is what WithOnShutdown is for:
//
//	srv := server.New(addr, server.WithOnShutdown(func() { hub.Close() }))
package server
