package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devops-demo-go/internal/cli/config"
	"github.com/yndnr/devops-demo-go/internal/cli/connection"
	"github.com/yndnr/devops-demo-go/internal/cli/output"
	"github.com/yndnr/devops-demo-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "demo-cli",
		Usage:   "Probe a running demo-server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Writer:  os.Stdout,
		Commands: []*cli.Command{
			HealthCommand(),
			InfoCommand(),
			MetricsCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			c.App.Metadata["config"] = cfg

			_, err = output.ParseFormat(string(ParseGlobalFlags(c).Output))
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file (default: " + config.DefaultConfigPath() + ")",
			EnvVars: []string{"DEMO_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "demo-server address or target name (default: localhost:3000)",
			EnvVars: []string{"DEMO_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml (default: table)",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Request timeout (default: 10s)",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  output.Format
	Timeout time.Duration
}

// ParseGlobalFlags extracts global flags from context. Flags that are not
// set fall back to the CLI config file.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	cfg := GetConfig(c)

	server := cfg.DefaultServer
	if c.IsSet("server") {
		server = c.String("server")
	}
	format := output.Format(cfg.DefaultOutput)
	if c.IsSet("output") {
		format = output.Format(c.String("output"))
	}
	if f, err := output.ParseFormat(string(format)); err == nil {
		format = f
	}
	timeout := cfg.Timeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}

	return &GlobalFlags{
		Server:  cfg.Resolve(server),
		Output:  format,
		Timeout: timeout,
	}
}

// GetConfig retrieves the CLI config loaded by the Before hook.
func GetConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata["config"].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// newClient returns an HTTP client for the selected server.
func newClient(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewHTTPClient(flags.Server, flags.Timeout)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
