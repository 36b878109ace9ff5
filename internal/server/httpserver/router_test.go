package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/yndnr/devops-demo-go/internal/server/httpserver/handler"
	"github.com/yndnr/devops-demo-go/internal/telemetry/metric"
)

type fixedEnv string

func (e fixedEnv) Environment() string { return string(e) }

func newTestRegistry(t *testing.T) *metric.Registry {
	t.Helper()
	reg, err := metric.New()
	if err != nil {
		t.Fatalf("metric.New() error = %v", err)
	}
	if err := reg.RegisterHTTPInstruments(); err != nil {
		t.Fatalf("RegisterHTTPInstruments() error = %v", err)
	}
	return reg
}

func newTestRouter(t *testing.T, mutate ...func(*RouterConfig)) (http.Handler, *metric.Registry) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index.html": "<h1>demo</h1>",
		"style.css":  "body{}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	reg := newTestRegistry(t)
	cfg := DefaultRouterConfig()
	cfg.Registry = reg
	cfg.Environment = fixedEnv("test")
	cfg.Logger = discardLogger()
	cfg.StaticDir = dir
	for _, m := range mutate {
		m(cfg)
	}
	return NewRouter(cfg), reg
}

// findMetric returns the sample of family name with exactly the given labels.
func findMetric(t *testing.T, reg *metric.Registry, name string, labels metric.Labels) *dto.Metric {
	t.Helper()
	families, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			match := true
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					match = false
					break
				}
			}
			if match {
				return m
			}
		}
	}
	return nil
}

func requestCount(t *testing.T, reg *metric.Registry, method, route, status string) float64 {
	t.Helper()
	m := findMetric(t, reg, metric.RequestsTotalName, metric.Labels{"method": method, "route": route, "status": status})
	if m == nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func durationCount(t *testing.T, reg *metric.Registry, method, route, status string) uint64 {
	t.Helper()
	m := findMetric(t, reg, metric.RequestDurationName, metric.Labels{"method": method, "route": route, "status": status})
	if m == nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestNewRouter_RecordsEachRequestOnce(t *testing.T) {
	router, reg := newTestRouter(t)

	tests := []struct {
		name   string
		path   string
		route  string
		status int
	}{
		{"health", "/api/health", "/api/health", http.StatusOK},
		{"info", "/api/info", "/api/info", http.StatusOK},
		{"index", "/", "/", http.StatusOK},
		{"static file uses raw path", "/style.css", "/style.css", http.StatusOK},
		{"unknown path uses raw path", "/nope", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := fmt.Sprint(tt.status)
			before := requestCount(t, reg, "GET", tt.route, status)
			beforeHist := durationCount(t, reg, "GET", tt.route, status)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := requestCount(t, reg, "GET", tt.route, status); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
			if got := durationCount(t, reg, "GET", tt.route, status); got != beforeHist+1 {
				t.Errorf("histogram count = %d, want %d", got, beforeHist+1)
			}
		})
	}
}

func TestNewRouter_BoundedRoutes(t *testing.T) {
	router, reg := newTestRouter(t, func(cfg *RouterConfig) { cfg.BoundedRoutes = true })

	for _, path := range []string{"/nope", "/style.css", "/a/b/c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/health", nil))

	if got := requestCount(t, reg, "GET", UnmatchedRoute, "404"); got != 2 {
		t.Errorf("unmatched 404 = %v, want 2", got)
	}
	if got := requestCount(t, reg, "GET", UnmatchedRoute, "200"); got != 1 {
		t.Errorf("unmatched 200 = %v, want 1", got)
	}
	if got := requestCount(t, reg, "GET", "/api/health", "200"); got != 1 {
		t.Errorf("health = %v, want 1", got)
	}
	if m := findMetric(t, reg, metric.RequestsTotalName, metric.Labels{"method": "GET", "route": "/nope", "status": "404"}); m != nil {
		t.Error("raw path label should not be used in bounded mode")
	}
}

func TestNewRouter_ConcurrentHealth(t *testing.T) {
	router, reg := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(server.URL + "/api/health")
			if err != nil {
				errs <- err
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("request failed: %v", err)
	}

	if got := requestCount(t, reg, "GET", "/api/health", "200"); got != n {
		t.Errorf("counter = %v, want %d", got, n)
	}
	if got := durationCount(t, reg, "GET", "/api/health", "200"); got != n {
		t.Errorf("histogram count = %d, want %d", got, n)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	scrape := func() string {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q", ct)
		}
		return rec.Body.String()
	}

	typeLines := func(body string) []string {
		var lines []string
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "# TYPE ") {
				lines = append(lines, line)
			}
		}
		return lines
	}

	first := scrape()
	for _, want := range []string{
		"# TYPE http_request_duration_seconds histogram",
		"# TYPE http_requests_total counter",
	} {
		if strings.Count(first, want) != 1 {
			t.Errorf("expected exactly one %q in:\n%s", want, first)
		}
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/health", nil))
	second := scrape()

	if strings.Join(typeLines(first), "\n") != strings.Join(typeLines(second), "\n") {
		t.Errorf("TYPE lines changed between scrapes:\n%v\n%v", typeLines(first), typeLines(second))
	}
	if !strings.Contains(second, `http_requests_total{method="GET",route="/api/health",status="200"} 1`) {
		t.Errorf("expected health sample in:\n%s", second)
	}
	if !strings.Contains(second, `route="/metrics"`) {
		t.Errorf("expected the first scrape to be recorded in:\n%s", second)
	}
}

func TestNewRouter_PanicKeepsServing(t *testing.T) {
	reg := newTestRegistry(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h := Chain(mux, RequestID(discardLogger()), Instrument(reg, RawPath), Recover())

	server := httptest.NewServer(h)
	defer server.Close()

	resp, err := http.Get(server.URL + "/boom")
	if err != nil {
		t.Fatalf("GET /boom error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	var errResp handler.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	if errResp.Error != handler.InternalErrorMessage {
		t.Errorf("error = %q, want %q", errResp.Error, handler.InternalErrorMessage)
	}

	resp, err = http.Get(server.URL + "/ok")
	if err != nil {
		t.Fatalf("GET /ok error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status after panic = %d, want 200", resp.StatusCode)
	}

	if got := requestCount(t, reg, "GET", "/boom", "500"); got != 1 {
		t.Errorf("500 counter = %v, want 1", got)
	}
}

func TestNewRouter_Headers(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	if rec.Header().Get(HeaderRequestID) == "" {
		t.Error("expected X-Request-ID header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	req := httptest.NewRequest("OPTIONS", "/api/info", nil)
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	router, reg := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.RateLimit = 1
		cfg.RateLimitBurst = 1
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/health", nil)
		req.RemoteAddr = "10.1.1.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
	if got := requestCount(t, reg, "GET", "/api/health", "429"); got != 1 {
		t.Errorf("429 counter = %v, want 1", got)
	}
}

func TestRouteResolverFor(t *testing.T) {
	h := handler.New(handler.Options{
		Registry:    newTestRegistry(t),
		Environment: fixedEnv("test"),
		StaticDir:   t.TempDir(),
	})

	tests := []struct {
		path    string
		bounded bool
		want    string
	}{
		{"/api/health", false, "/api/health"},
		{"/api/health", true, "/api/health"},
		{"/metrics", false, "/metrics"},
		{"/", false, "/"},
		{"/img/logo.png", false, "/img/logo.png"},
		{"/img/logo.png", true, UnmatchedRoute},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s bounded=%v", tt.path, tt.bounded), func(t *testing.T) {
			resolve := RouteResolverFor(h, tt.bounded)
			if got := resolve(httptest.NewRequest("GET", tt.path, nil)); got != tt.want {
				t.Errorf("resolve(%s) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
