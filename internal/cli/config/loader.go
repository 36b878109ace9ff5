package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "demo-cli", "config.yaml")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".demo-cli.yaml")
}

// Load loads CLI configuration from a YAML file. A missing file yields the
// defaults; keys absent from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	if cfg.Targets == nil {
		cfg.Targets = make(map[string]string)
	}

	return cfg, nil
}
