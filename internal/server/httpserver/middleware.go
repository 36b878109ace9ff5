package httpserver

import (
	"bufio"
	"errors"
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/devops-demo-go/internal/server/httpserver/handler"
	"github.com/yndnr/devops-demo-go/internal/telemetry/logger"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost one.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID adds a unique request ID to each request and stores it, with
// log, in the request context for logger.L. An inbound X-Request-ID header
// is kept as is.
func RequestID(log logger.Logger) Middleware {
	if log == nil {
		log = logger.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = ulid.Make().String()
			}

			w.Header().Set(HeaderRequestID, requestID)

			ctx := logger.WithLogger(r.Context(), log)
			ctx = logger.WithRequestID(ctx, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover recovers from panics and writes the catch-all 500 response.
// The panic value and stack are logged, never sent to the client.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrap(w)
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.L(r.Context()).Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
					"stack", string(debug.Stack()),
				)

				if wrapped.wroteHeader {
					return
				}
				handler.WriteInternalError(wrapped)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

// CORS adds Cross-Origin Resource Sharing headers.
// An empty list or "*" allows every origin.
func CORS(allowedOrigins []string) Middleware {
	allowAll := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
			break
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && containsString(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, PATCH, DELETE")
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
				}
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// rateLimiterRegistry keeps one token bucket per client IP.
type rateLimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newRateLimiterRegistry(rps float64, burst int) *rateLimiterRegistry {
	if burst < 1 {
		burst = int(math.Ceil(rps))
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimiterRegistry{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// getOrCreate retrieves the limiter for key or creates a new one.
func (r *rateLimiterRegistry) getOrCreate(key string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[key]
	r.mu.RUnlock()
	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if limiter, exists = r.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(r.limit, r.burst)
	r.limiters[key] = limiter
	return limiter
}

// RateLimit applies per client IP rate limiting with a token bucket.
// Rejected requests get 429 with a Retry-After header.
func RateLimit(rps float64, burst int) Middleware {
	registry := newRateLimiterRegistry(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := registry.getOrCreate(getClientIP(r))

			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				retry := int(math.Ceil(delay.Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per completed request.
func AccessLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			log := logger.L(r.Context())
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"bytes", wrapped.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", getClientIP(r),
			}

			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	written     int64
}

// wrap returns w itself when it already captures the status, so nested
// middlewares observe the same state.
func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.statusCode = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func (w *responseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// SplitHostPort handles IPv6 addresses like [::1]:8080.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
