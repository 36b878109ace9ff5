package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devops-demo-go/internal/infra/buildinfo"
	"github.com/yndnr/devops-demo-go/internal/infra/confloader"
	"github.com/yndnr/devops-demo-go/internal/server/config"
	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
	"github.com/yndnr/devops-demo-go/internal/telemetry/metric"
)

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	if err := newApp(&out).Run([]string{"demo-server", "--version"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != buildinfo.String() {
		t.Errorf("version output = %q, want %q", got, buildinfo.String())
	}
}

func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "no flags",
			args: nil,
			want: map[string]any{},
		},
		{
			name: "all flags",
			args: []string{"-p", "8080", "--env", "production", "--log-level", "debug", "--static-dir", "/srv/www"},
			want: map[string]any{
				"server.http.port":       8080,
				"app.environment":        "production",
				"log.level":              "debug",
				"server.http.static_dir": "/srv/www",
			},
		},
		{
			name: "port only",
			args: []string{"--port", "9000"},
			want: map[string]any{"server.http.port": 9000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			app := newApp(&bytes.Buffer{})
			app.Action = func(c *cli.Context) error {
				got = flagOverrides(c)
				return nil
			}

			if err := app.Run(append([]string{"demo-server"}, tt.args...)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("overrides = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("overrides[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name           string
		defaultMetrics bool
		wantGo         bool
	}{
		{"with default metrics", true, true},
		{"without default metrics", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Metrics.DefaultMetrics = tt.defaultMetrics

			reg, err := newRegistry(cfg, time.Now())
			if err != nil {
				t.Fatalf("newRegistry() error = %v", err)
			}

			body, err := reg.Render()
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			out := string(body)

			for _, want := range []string{
				"# TYPE " + metric.RequestDurationName + " histogram",
				"# TYPE " + metric.RequestsTotalName + " counter",
				"# TYPE process_uptime_seconds gauge",
				"app_info{",
			} {
				if !strings.Contains(out, want) {
					t.Errorf("missing %q in:\n%s", want, out)
				}
			}
			if got := strings.Contains(out, "go_goroutines"); got != tt.wantGo {
				t.Errorf("go_goroutines present = %v, want %v", got, tt.wantGo)
			}
		})
	}
}

func TestWatchConfig_AppliesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	write("app:\n  environment: staging\nlog:\n  level: info\n")

	cfg, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	live := config.NewLive(cfg)

	log, err := logger.New(logger.Config{Level: "info", Format: "json", Output: &syncBuffer{}})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	t.Cleanup(func() { logger.SetLevel("info") })

	stop, err := watchConfig(path, nil, live, log)
	if err != nil {
		t.Fatalf("watchConfig() error = %v", err)
	}
	defer stop()
	time.Sleep(100 * time.Millisecond)

	write("app:\n  environment: production\nlog:\n  level: debug\n")

	deadline := time.Now().Add(2 * time.Second)
	for live.Environment() != "production" && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := live.Environment(); got != "production" {
		t.Fatalf("Environment() = %q, want production", got)
	}
	if got := live.Load().Log.Level; got != "debug" {
		t.Errorf("log level = %q, want debug", got)
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine to write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchConfig_RejectsInvalidReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  environment: staging\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	live := config.NewLive(cfg)

	var logs syncBuffer
	log, err := logger.New(logger.Config{Level: "info", Format: "json", Output: &logs})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	stop, err := watchConfig(path, nil, live, log)
	if err != nil {
		t.Fatalf("watchConfig() error = %v", err)
	}
	defer stop()
	time.Sleep(100 * time.Millisecond)

	// Truncate first and let the watcher settle on the empty file, the way
	// an editor saving in place does.
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	time.Sleep(3 * confloader.DefaultDebounce)
	if got := live.Environment(); got != "staging" {
		t.Fatalf("Environment() = %q after truncation, want staging", got)
	}

	if err := os.WriteFile(path, []byte("app:\n  environment: production\nlog:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(logs.String(), "config reload rejected") && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(logs.String(), "config reload rejected") {
		t.Fatalf("expected rejected reload in log, got:\n%s", logs.String())
	}
	if got := live.Environment(); got != "staging" {
		t.Errorf("Environment() = %q, want staging after rejected reload", got)
	}
}
