// Package httpserver runs an http.Server for the lifetime of a context.
//
// Run binds the listener, serves until the context is done, then calls
// http.Server.Shutdown bounded by the configured shutdown timeout. It fits
// directly into an errgroup:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// LivenessHandler and ReadinessHandler back the /health endpoints. Readiness
// runs named Check probes, usually the storage driver's Ping.
//
// Start failures wrap ErrStart and shutdown failures wrap ErrShutdown.
package httpserver
