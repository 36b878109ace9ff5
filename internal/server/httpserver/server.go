package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// New creates a new HTTP server. readHeaderTimeout bounds header reads
// only; handlers are not time limited.
func New(addr string, handler http.Handler, readHeaderTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		handler: handler,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Serve accepts connections on ln. It returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return ignoreClosed(s.httpServer.Serve(ln))
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
