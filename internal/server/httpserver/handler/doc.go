// Package handler provides HTTP request handlers for the demo service.
//
// Routes:
//
//   - GET /            index page from the static directory
//   - GET /{file}      other static files (no directory listings)
//   - GET /api/health  liveness payload with uptime
//   - GET /api/info    service metadata, environment and hostname
//   - GET /metrics     Prometheus exposition (path configurable)
//
// Failures inside handlers are answered with a generic 500 body; the
// detail is only logged.
package handler
