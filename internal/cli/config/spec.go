package config

import "time"

// CLIConfig is the configuration for demo-cli.
type CLIConfig struct {
	// Defaults used when the matching global flag is not given.
	DefaultServer string        `yaml:"default_server"`
	DefaultOutput string        `yaml:"default_output"` // table, json, yaml
	Timeout       time.Duration `yaml:"timeout"`

	// Targets maps short names to server addresses, so that
	// "--server staging" can stand for a full URL.
	Targets map[string]string `yaml:"targets"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "localhost:3000",
		DefaultOutput: "table",
		Timeout:       10 * time.Second,
		Targets:       make(map[string]string),
	}
}

// Resolve returns the address for server, which is either a target name
// or an address.
func (c *CLIConfig) Resolve(server string) string {
	if addr, ok := c.Targets[server]; ok {
		return addr
	}
	return server
}
