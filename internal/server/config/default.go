package config

import (
	"net"
	"strconv"
	"time"
)

// Default configuration values.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 3000
	DefaultStaticDir         = "public"
	DefaultReadHeaderTimeout = 10 * time.Second

	DefaultRateLimitRPS   = 50
	DefaultRateLimitBurst = 100

	DefaultEnvironment = "development"

	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Host:               DefaultHost,
				Port:               DefaultPort,
				StaticDir:          DefaultStaticDir,
				ReadHeaderTimeout:  DefaultReadHeaderTimeout,
				CORSAllowedOrigins: []string{"*"},
				RateLimit: RateLimitConfig{
					Enabled: false,
					RPS:     DefaultRateLimitRPS,
					Burst:   DefaultRateLimitBurst,
				},
			},
		},
		App: AppSection{
			Environment: DefaultEnvironment,
		},
		Metrics: MetricsSection{
			Path:           DefaultMetricsPath,
			DefaultMetrics: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
