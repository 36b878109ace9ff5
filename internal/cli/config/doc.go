// Package config defines the optional demo-cli configuration file.
//
// The file holds defaults for the global flags and named targets:
//
//	default_server: staging
//	default_output: json
//	timeout: 5s
//	targets:
//	  staging: http://demo.staging.internal:3000
//	  local: localhost:3000
package config
