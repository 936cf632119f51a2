// Package monitoring provides Prometheus metrics for the output service.
//
// Metrics cover the HTTP surface, channel lifecycle, content volume
// (appended and trimmed lines), selection churn, and WebSocket fan-out.
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics()
//	router.Use(metrics.Middleware())
//	router.GET("/metrics", metrics.Handler())
package monitoring
