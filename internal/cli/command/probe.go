package command

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/devops-demo-go/internal/cli/connection"
	"github.com/yndnr/devops-demo-go/internal/cli/output"
)

// ErrUnhealthy is returned by the health command when the server is not healthy.
var ErrUnhealthy = errors.New("server unhealthy")

// HealthResponse mirrors GET /api/health.
type HealthResponse struct {
	Status    string  `json:"status" yaml:"status"`
	Timestamp string  `json:"timestamp" yaml:"timestamp"`
	Uptime    float64 `json:"uptime" yaml:"uptime"`
}

// InfoResponse mirrors GET /api/info.
type InfoResponse struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Environment string `json:"environment" yaml:"environment"`
	Hostname    string `json:"hostname" yaml:"hostname"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// HealthCommand checks /api/health. It exits non-zero unless the server
// reports "healthy", so it can back a container health check.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check server health",
		Action: health,
	}
}

// InfoCommand prints /api/info.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "info",
		Usage:  "Show service information",
		Action: info,
	}
}

// MetricsCommand prints the Prometheus exposition, optionally filtered.
func MetricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Dump the metrics endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Only show metric families starting with this prefix",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "Metrics endpoint path",
				Value: "/metrics",
			},
		},
		Action: metrics,
	}
}

func health(c *cli.Context) error {
	client := newClient(c)

	resp, err := client.Get(c.Context, "/api/health")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}

	var result HealthResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}

	flags := ParseGlobalFlags(c)
	w := c.App.Writer
	switch flags.Output {
	case output.FormatTable:
		if result.Status == "healthy" {
			fmt.Fprintf(w, "✓ Server is healthy\n")
			fmt.Fprintf(w, "  Target: %s\n", client.BaseURL())
			fmt.Fprintf(w, "  Uptime: %.1fs\n", result.Uptime)
		} else {
			fmt.Fprintf(w, "✗ Server is unhealthy: %s\n", result.Status)
		}
	default:
		if err := output.NewFormatter(flags.Output).Format(w, result); err != nil {
			return err
		}
	}

	if result.Status != "healthy" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, result.Status)
	}
	return nil
}

func info(c *cli.Context) error {
	resp, err := newClient(c).Get(c.Context, "/api/info")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result InfoResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return output.NewFormatter(ParseGlobalFlags(c).Output).Format(c.App.Writer, &result)
}

func metrics(c *cli.Context) error {
	resp, err := newClient(c).Get(c.Context, c.String("path"))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	text, err := connection.ReadText(resp)
	if err != nil {
		return err
	}

	return FilterFamilies(c.App.Writer, strings.NewReader(text), c.String("prefix"))
}

// FilterFamilies parses a text exposition and writes back the metric
// families whose name starts with prefix, sorted by name. An empty prefix
// keeps every family.
func FilterFamilies(w io.Writer, exposition io.Reader, prefix string) error {
	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(exposition)
	if err != nil {
		return fmt.Errorf("parse metrics: %w", err)
	}

	names := make([]string, 0, len(families))
	for name := range families {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := expfmt.MetricFamilyToText(w, families[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
