// Package main provides the entry point for demo-cli.
//
// demo-cli probes a running demo-server:
//
//	demo-cli health                 # exit status 1 unless healthy
//	demo-cli -o json info
//	demo-cli metrics --prefix http_
//
// The target defaults to localhost:3000 and can be set with --server or
// DEMO_SERVER.
package main
