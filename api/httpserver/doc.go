// Package httpserver provides the HTTP server shell shared by the auction
// service binaries.
//
// BaseServer wraps net/http with the lifecycle pieces every deployment
// needs: request logging, panic recovery, liveness and readiness probes,
// drain control for load balancers, an optional Prometheus metrics listener
// and graceful shutdown. Components plug in their routes through the
// RouteRegistrar interface:
//
//	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
//	    ListenAddr: ":8080",
//	    Log:        log,
//	}, auctionService)
//	if err != nil { ... }
//	srv.RunInBackground()
//	defer srv.Shutdown()
//
// # Health and Diagnostics
//
//   - /livez: the process is up
//   - /readyz: the server accepts traffic (503 while draining)
//   - /drain, /undrain: toggle readiness ahead of a rollout
//   - /metrics on MetricsAddr: Prometheus text exposition
//   - /debug: pprof, when enabled
package httpserver
