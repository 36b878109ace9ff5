// Package command provides the demo-cli command definitions.
//
// It uses urfave/cli/v2 and exposes three probes against a running
// demo-server:
//
//   - health: GET /api/health, non-zero exit unless healthy
//   - info: GET /api/info
//   - metrics: raw exposition, optionally filtered by family prefix
package command
