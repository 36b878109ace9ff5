package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
	"github.com/yndnr/devops-demo-go/internal/telemetry/metric"
)

// staticPattern is the catch-all route. Requests served by it are
// reported as unresolved by Route.
const staticPattern = "GET /"

// EnvironmentSource reports the deployment environment at request time.
type EnvironmentSource interface {
	Environment() string
}

// Options configures a Handler.
type Options struct {
	Registry    *metric.Registry
	Environment EnvironmentSource

	StaticDir   string
	MetricsPath string

	// Negotiate serves MetricsPath through promhttp content negotiation
	// instead of the fixed text format.
	Negotiate bool

	// Start is the process start time used for uptime. Zero means now.
	Start time.Time

	// Hostname overrides os.Hostname, for tests.
	Hostname func() (string, error)
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	reg         *metric.Registry
	env         EnvironmentSource
	staticDir   string
	start       time.Time
	hostname    func() (string, error)
	negotiated  http.Handler
	metricsPath string
	mux         *http.ServeMux
}

// New creates a new Handler.
func New(opts Options) *Handler {
	h := &Handler{
		reg:         opts.Registry,
		env:         opts.Environment,
		staticDir:   opts.StaticDir,
		start:       opts.Start,
		hostname:    opts.Hostname,
		metricsPath: opts.MetricsPath,
		mux:         http.NewServeMux(),
	}
	if h.start.IsZero() {
		h.start = time.Now()
	}
	if h.hostname == nil {
		h.hostname = os.Hostname
	}
	if h.metricsPath == "" {
		h.metricsPath = "/metrics"
	}
	if opts.Negotiate {
		h.negotiated = h.reg.Handler()
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.Handle(staticPattern, h.staticFiles())

	h.mux.HandleFunc("GET /api/health", h.handleHealth)
	h.mux.HandleFunc("GET /api/info", h.handleInfo)

	h.mux.HandleFunc("GET "+h.metricsPath, h.handleMetrics)
}

// Route returns the registered path pattern that serves r, without the
// method. ok is false when only the static catch-all or nothing matches.
func (h *Handler) Route(r *http.Request) (route string, ok bool) {
	_, pattern := h.mux.Handler(r)
	if pattern == "" || pattern == staticPattern {
		return "", false
	}
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = pattern[i+1:]
	}
	pattern = strings.TrimSuffix(pattern, "{$}")
	if pattern == "" {
		pattern = "/"
	}
	return pattern, true
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// internalError logs err with request context and writes the generic 500 body.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.L(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	WriteInternalError(w)
}

// WriteInternalError writes the catch-all 500 response. The body never
// carries error detail.
func WriteInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: InternalErrorMessage})
}
