// Package main provides the entry point for demo-server.
//
// demo-server is a small HTTP service used to demonstrate build,
// deployment and monitoring pipelines. It serves:
//
//   - GET /            static files from the configured directory
//   - GET /api/health  liveness with uptime
//   - GET /api/info    service name, version and environment
//   - GET /metrics     Prometheus text exposition
//
// Usage:
//
//	demo-server [flags]
//	demo-server --config /path/to/config.yaml --port 8080
//
// Configuration is read from defaults, the optional config file, DEMO_*
// environment variables, PORT/NODE_ENV/APP_ENV, and flags, in increasing
// order of precedence.
package main
