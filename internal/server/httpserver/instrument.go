package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
)

// UnmatchedRoute labels requests that no API route served when route
// labels are bounded.
const UnmatchedRoute = "unmatched"

// Recorder records one completed request.
type Recorder interface {
	RecordRequest(method, route, status string, seconds float64) error
}

// RouteResolver returns the route label for a request.
type RouteResolver func(*http.Request) string

// RawPath labels every request with its URL path.
func RawPath(r *http.Request) string {
	return r.URL.Path
}

// Instrument records the duration and outcome of every completed request.
//
// Exactly one sample is recorded after the wrapped handler returns. When the
// request context is already done at that point the client went away and
// nothing is recorded.
func Instrument(rec Recorder, resolve RouteResolver) Middleware {
	if resolve == nil {
		resolve = RawPath
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			if r.Context().Err() != nil {
				return
			}

			duration := time.Since(start).Seconds()
			route := resolve(r)
			status := strconv.Itoa(wrapped.statusCode)

			if err := rec.RecordRequest(r.Method, route, status, duration); err != nil {
				logger.L(r.Context()).Warn("failed to record request",
					"method", r.Method,
					"route", route,
					"status", status,
					"error", err,
				)
			}
		})
	}
}
