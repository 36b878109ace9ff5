// Package httpserver provides the HTTP server for the demo service.
//
// It wires the route handlers from the handler package behind a
// middleware chain:
//
//   - RequestID: X-Request-ID propagation (ULID when absent)
//   - AccessLog: one structured log line per request (optional)
//   - Instrument: request duration histogram and request counter
//   - Recover: panics become the catch-all 500 response
//   - CORS: permissive by default, preflight answered with 204
//   - RateLimit: per client IP token bucket (optional)
package httpserver
