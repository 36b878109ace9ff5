package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devops-demo-go/internal/infra/buildinfo"
	"github.com/yndnr/devops-demo-go/internal/infra/confloader"
	"github.com/yndnr/devops-demo-go/internal/server/config"
	"github.com/yndnr/devops-demo-go/internal/server/httpserver"
	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
	"github.com/yndnr/devops-demo-go/internal/telemetry/metric"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:        "demo-server",
		Usage:       "DevOps demo HTTP service",
		HideVersion: true,
		Writer:      stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (yaml, json or toml)",
				EnvVars: []string{"DEMO_CONFIG"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides PORT)",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Deployment environment reported by /api/info",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "static-dir",
				Usage: "Directory served at /",
			},
			&cli.BoolFlag{
				Name:  "version",
				Usage: "Show version information",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				fmt.Fprintln(c.App.Writer, buildinfo.String())
				return nil
			}
			return serve(c)
		},
	}
}

// flagOverrides maps explicitly set flags to configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("port") {
		overrides["server.http.port"] = c.Int("port")
	}
	if c.IsSet("env") {
		overrides["app.environment"] = c.String("env")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("static-dir") {
		overrides["server.http.static_dir"] = c.String("static-dir")
	}
	return overrides
}

func serve(c *cli.Context) error {
	start := time.Now()
	configFile := c.String("config")
	overrides := flagOverrides(c)

	cfg, err := config.Load(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.Writer,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	reg, err := newRegistry(cfg, start)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	live := config.NewLive(cfg)

	if configFile != "" {
		stop, err := watchConfig(configFile, overrides, live, log)
		if err != nil {
			log.Warn("config hot reload disabled", "config", configFile, "error", err)
		} else {
			defer stop()
		}
	}

	httpCfg := cfg.Server.HTTP
	routerCfg := &httpserver.RouterConfig{
		Registry:           reg,
		Environment:        live,
		Logger:             log,
		StaticDir:          httpCfg.StaticDir,
		MetricsPath:        cfg.Metrics.Path,
		Negotiate:          cfg.Metrics.Negotiate,
		BoundedRoutes:      cfg.Metrics.BoundedRoutes,
		CORSAllowedOrigins: httpCfg.CORSAllowedOrigins,
		AccessLog:          httpCfg.AccessLog,
		Start:              start,
	}
	if httpCfg.RateLimit.Enabled {
		routerCfg.RateLimit = httpCfg.RateLimit.RPS
		routerCfg.RateLimitBurst = httpCfg.RateLimit.Burst
	}

	server := httpserver.New(httpCfg.Addr(), httpserver.NewRouter(routerCfg), httpCfg.ReadHeaderTimeout)

	ln, err := net.Listen("tcp", server.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr(), err)
	}

	port := strconv.Itoa(httpCfg.Port)
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
	}
	log.Info("Server running on port " + port)
	log.Info("Health check: http://localhost:" + port + "/api/health")
	log.Info("Metrics: http://localhost:" + port + cfg.Metrics.Path)
	log.Debug("starting demo-server",
		"version", buildinfo.Version,
		"environment", cfg.App.Environment,
		"config", configFile,
	)

	return server.Serve(ln)
}

// newRegistry builds the metric registry shared by the middleware and
// the scrape endpoint.
func newRegistry(cfg *config.ServerConfig, start time.Time) (*metric.Registry, error) {
	var opts []metric.Option
	if cfg.Metrics.DefaultMetrics {
		opts = append(opts, metric.WithDefaultMetrics())
	}

	reg, err := metric.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterHTTPInstruments(); err != nil {
		return nil, err
	}

	info := buildinfo.Get()
	if err := reg.RegisterCollector(metric.NewCollector(start, metric.AppInfo{
		Name:    info.Name,
		Version: info.Version,
		Commit:  info.Commit,
	})); err != nil {
		return nil, err
	}
	return reg, nil
}

// watchConfig reloads the configuration file on change and applies the
// settings that may change at runtime. Flag overrides keep precedence.
func watchConfig(path string, overrides map[string]any, live *config.Live, log logger.Logger) (func(), error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		next, err := config.Load(path, overrides)
		if err != nil {
			log.Warn("config reload rejected", "config", path, "error", err)
			return
		}
		applied := live.Apply(next)
		logger.SetLevel(applied.Log.Level)
		log.Info("config reloaded",
			"environment", applied.App.Environment,
			"log_level", applied.Log.Level,
		)
	})
	w.StartAsync()

	return func() { _ = w.Stop() }, nil
}
