// Package connection provides the HTTP client used by demo-cli to talk
// to a running demo-server.
package connection
