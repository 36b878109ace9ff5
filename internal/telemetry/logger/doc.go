// Package logger provides structured logging for the demo service.
//
// This package wraps log/slog:
//
//   - logger.go: Logger construction, dynamic level, process-wide default
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Redaction of credentials and session headers
//
// Features:
//
//   - JSON (default) and text output formats
//   - Log level filtering, adjustable at runtime through SetLevel
//   - Automatic masking of Authorization, Cookie and similar attributes
//   - Context propagation for request tracing
package logger
