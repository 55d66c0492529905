/*
Package monitoring provides Prometheus metrics for PathVault.

# Overview

Metrics are registered on a private registry per collector and exposed
through Handler. The collector tracks HTTP traffic through a Gin
middleware and vault operations by acting as a vault.Observer.

# Features

- HTTP request metrics (latency, throughput, size) keyed by route template
- Vault operation counts, durations and error kinds
- Upload volume
- Go runtime, process and uptime metrics

# Usage

	metrics := monitoring.NewMetrics()
	v := vault.New(baseDir, vault.WithObserver(metrics))

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
