// Package config provides server configuration for demo-server.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (port range, paths, log settings)
//   - live.go: Hot-reloadable snapshot shared with request handlers
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
