// Package middleware provides the Gin middleware stack for the PathVault
// HTTP API.
//
// Middleware stack includes:
//   - Recovery: panic recovery with a JSON 500 body
//   - RequestLogger: one structured log line per request
//   - CORS: cross-origin access for browser clients, PATCH included
//   - RateLimit: per-IP token bucket with idle client eviction
//   - GlobalRateLimit: a single bucket shared by every client
//
// Example Usage:
//
//	router.Use(middleware.Recovery(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
