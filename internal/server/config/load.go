package config

import (
	"fmt"

	"github.com/yndnr/devops-demo-go/internal/infra/confloader"
)

// EnvPrefix prefixes environment variables mapped onto any config key,
// e.g. DEMO_LOG_LEVEL for log.level.
const EnvPrefix = "DEMO_"

// EnvAliases are the unprefixed environment variables honoured on top of
// DEMO_* variables. APP_ENV is listed after NODE_ENV and wins when both are set.
var EnvAliases = []confloader.EnvAlias{
	{Name: "PORT", Key: "server.http.port"},
	{Name: "NODE_ENV", Key: "app.environment"},
	{Name: "APP_ENV", Key: "app.environment"},
}

// Load builds the configuration from defaults, the optional file,
// environment variables and flag overrides (dotted keys), then verifies it.
func Load(configFile string, overrides map[string]any) (*ServerConfig, error) {
	cfg := Default()

	opts := []confloader.Option{
		confloader.WithDefaults(Default()),
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithEnvAliases(EnvAliases...),
	}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
