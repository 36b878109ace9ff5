// Package metric provides Prometheus metrics for the demo service.
//
// This package implements metrics collection and exposition:
//
//   - registry.go: Registry of named instruments over a dedicated prometheus.Registry
//   - instrument.go: Instrument definitions and label sets
//   - errors.go: Registration and recording errors
//   - collector.go: Default process/runtime collectors and the application collector
//   - http.go: Request duration and request count instruments
//
// Metrics include:
//
//   - http_request_duration_seconds (histogram, method/route/status)
//   - http_requests_total (counter, method/route/status)
//   - Go runtime and process metrics
//
// Metrics are exposed at /metrics in the Prometheus text format.
package metric
