package config

import "time"

// ServerConfig is the root configuration for demo-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	App     AppSection     `koanf:"app"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	StaticDir string `koanf:"static_dir"`

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	// Handlers themselves are not time limited.
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`

	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
	AccessLog          bool            `koanf:"access_log"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// AppSection describes the deployment.
type AppSection struct {
	// Environment is reported by /api/info and can change on reload.
	Environment string `koanf:"environment"`
}

// MetricsSection configures the exposition endpoint.
type MetricsSection struct {
	Path           string `koanf:"path"`
	DefaultMetrics bool   `koanf:"default_metrics"`

	// Negotiate serves the scrape endpoint through promhttp, which picks
	// the format (text or OpenMetrics) from the Accept header.
	Negotiate bool `koanf:"negotiate"`

	// BoundedRoutes labels requests that match no API route as "unmatched"
	// instead of using the raw path.
	BoundedRoutes bool `koanf:"bounded_routes"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}
