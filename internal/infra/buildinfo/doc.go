// Package buildinfo provides build information for the demo service.
//
// This package exposes build-time information injected via ldflags:
//
//   - Name: Application display name
//   - Version: Application version reported by /api/info
//   - Commit: Git commit hash (falls back to the VCS stamp of the binary)
//   - BuildTime: Build timestamp
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/devops-demo-go/internal/infra/buildinfo.Commit=abc123"
package buildinfo
