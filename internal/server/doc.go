// Package server assembles the PathVault HTTP service.
//
// NewServer wires every component from a config.Config:
//   - the vault rooted at the configured base directory (created if missing)
//   - structured logging, Prometheus metrics and request tracing
//   - the Gin middleware stack (recovery, tracing, metrics, request log,
//     CORS, optional server-wide and per-IP rate limiting)
//   - the folder and file routes plus /health and /metrics
//
// Server Lifecycle:
//  1. Load configuration (defaults, optional file, environment)
//  2. NewServer builds the router and http.Server
//  3. Run blocks serving requests
//  4. Close drains in-flight requests via http.Server.Shutdown, then
//     flushes spans and logs
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Close()
package server
