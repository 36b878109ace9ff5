package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	h := cfg.HTTP
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("server.http.port must be between 1 and 65535, got %d", h.Port)
	}
	if h.StaticDir == "" {
		return errors.New("server.http.static_dir is required")
	}
	if h.ReadHeaderTimeout < 0 {
		return errors.New("server.http.read_header_timeout must not be negative")
	}
	if h.RateLimit.Enabled {
		if h.RateLimit.RPS <= 0 {
			return errors.New("server.http.rate_limit.rps must be positive")
		}
		if h.RateLimit.Burst < 1 {
			return errors.New("server.http.rate_limit.burst must be at least 1")
		}
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("metrics.path must start with \"/\", got %q", cfg.Path)
	}
	if cfg.Path == "/" || strings.HasPrefix(cfg.Path, "/api/") {
		return fmt.Errorf("metrics.path %q collides with application routes", cfg.Path)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
}
