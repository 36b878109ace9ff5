package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	method, route, status string
	seconds               float64
}

// fakeRecorder captures RecordRequest calls.
type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedRequest
	err   error
}

func (f *fakeRecorder) RecordRequest(method, route, status string, seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedRequest{method, route, status, seconds})
	return f.err
}

func (f *fakeRecorder) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.calls...)
}

func TestInstrument(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		handler    http.HandlerFunc
		wantStatus string
	}{
		{
			name:       "implicit 200",
			method:     "GET",
			path:       "/api/health",
			handler:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) },
			wantStatus: "200",
		},
		{
			name:       "explicit status",
			method:     "POST",
			path:       "/items",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) },
			wantStatus: "201",
		},
		{
			name:       "not found",
			method:     "GET",
			path:       "/missing",
			handler:    http.NotFound,
			wantStatus: "404",
		},
		{
			name:       "no write at all",
			method:     "DELETE",
			path:       "/x",
			handler:    func(http.ResponseWriter, *http.Request) {},
			wantStatus: "200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			h := Instrument(rec, func(r *http.Request) string { return "route:" + r.URL.Path })(tt.handler)

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			calls := rec.recorded()
			if len(calls) != 1 {
				t.Fatalf("expected exactly one sample, got %d", len(calls))
			}
			got := calls[0]
			if got.method != tt.method {
				t.Errorf("method = %q, want %q", got.method, tt.method)
			}
			if got.route != "route:"+tt.path {
				t.Errorf("route = %q, want %q", got.route, "route:"+tt.path)
			}
			if got.status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.status, tt.wantStatus)
			}
			if got.seconds < 0 {
				t.Errorf("seconds = %v, want >= 0", got.seconds)
			}
		})
	}
}

func TestInstrument_NilResolverUsesRawPath(t *testing.T) {
	rec := &fakeRecorder{}
	h := Instrument(rec, nil)(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/some/raw/path?q=1", nil))

	calls := rec.recorded()
	if len(calls) != 1 || calls[0].route != "/some/raw/path" {
		t.Errorf("calls = %+v, want one sample with route /some/raw/path", calls)
	}
}

func TestInstrument_CancelledRequestNotRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	h := Instrument(rec, nil)(okHandler())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest("GET", "/api/health", nil).WithContext(ctx)

	h.ServeHTTP(httptest.NewRecorder(), req)

	if calls := rec.recorded(); len(calls) != 0 {
		t.Errorf("expected no samples for a cancelled request, got %+v", calls)
	}
}

func TestInstrument_RecordErrorDoesNotAffectResponse(t *testing.T) {
	var logBuffer strings.Builder

	rec := &fakeRecorder{err: errors.New("boom")}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}), RequestID(bufferLogger(t, &logBuffer)), Instrument(rec, nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/brew", nil))

	if w.Code != http.StatusTeapot || w.Body.String() != "tea" {
		t.Errorf("response = %d %q, want 418 \"tea\"", w.Code, w.Body.String())
	}
	if !strings.Contains(logBuffer.String(), "failed to record request") {
		t.Errorf("expected warning in log, got: %s", logBuffer.String())
	}
}

func TestInstrument_RecordsRecoveredPanicAs500(t *testing.T) {
	rec := &fakeRecorder{}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}), Instrument(rec, nil), Recover())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	calls := rec.recorded()
	if len(calls) != 1 || calls[0].status != "500" {
		t.Errorf("calls = %+v, want one sample with status 500", calls)
	}
}
