package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server with sane connection timeouts.
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     handler,
			ReadTimeout: 10 * time.Second,
			// no write timeout: a cold cache miss blocks on the whole
			// batch fetch, bounded only by symbols x per-request timeout
			IdleTimeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
