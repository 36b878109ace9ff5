package httpserver

import (
	"net/http"
	"time"

	"github.com/yndnr/devops-demo-go/internal/server/httpserver/handler"
	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
	"github.com/yndnr/devops-demo-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Registry receives request samples and backs the metrics endpoint.
	Registry *metric.Registry

	// Environment is read by /api/info on every request.
	Environment handler.EnvironmentSource

	// Logger is attached to every request context. Nil uses logger.Default.
	Logger logger.Logger

	StaticDir   string
	MetricsPath string

	// Negotiate serves the metrics endpoint with content negotiation.
	Negotiate bool

	// BoundedRoutes labels requests without an API route as "unmatched".
	BoundedRoutes bool

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// RateLimit is the per-IP request rate (requests/second). Zero disables it.
	RateLimit      float64
	RateLimitBurst int

	// AccessLog logs one line per request.
	AccessLog bool

	// Start is the process start time reported as uptime.
	Start time.Time
}

// NewRouter creates the handler with all routes and the middleware chain.
//
// Order: RequestID -> AccessLog -> Instrument -> Recover -> CORS -> RateLimit -> Handler.
// Instrument sits outside Recover so a recovered panic is recorded as a 500.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(handler.Options{
		Registry:    cfg.Registry,
		Environment: cfg.Environment,
		StaticDir:   cfg.StaticDir,
		MetricsPath: cfg.MetricsPath,
		Negotiate:   cfg.Negotiate,
		Start:       cfg.Start,
	})

	middlewares := []Middleware{RequestID(cfg.Logger)}
	if cfg.AccessLog {
		middlewares = append(middlewares, AccessLog())
	}
	middlewares = append(middlewares,
		Instrument(cfg.Registry, RouteResolverFor(h, cfg.BoundedRoutes)),
		Recover(),
		CORS(cfg.CORSAllowedOrigins),
	)
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateLimitBurst))
	}

	return Chain(h, middlewares...)
}

// RouteResolverFor labels requests with the pattern h matched them to.
// Other requests keep their raw path, or "unmatched" when bounded.
func RouteResolverFor(h *handler.Handler, bounded bool) RouteResolver {
	return func(r *http.Request) string {
		if route, ok := h.Route(r); ok {
			return route
		}
		if bounded {
			return UnmatchedRoute
		}
		return r.URL.Path
	}
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		StaticDir:          "public",
		MetricsPath:        "/metrics",
		CORSAllowedOrigins: []string{"*"},
		RateLimitBurst:     100,
	}
}
