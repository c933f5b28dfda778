package http

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

// ServerConfig configures the listener.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server owns the HTTP listener.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger
}

// NewServer creates a Server serving handler.
func NewServer(cfg ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start blocks serving requests until Stop is called. A clean stop returns nil.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logging.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == nil || stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, errors.CodeServiceUnavailable, "HTTP server failed")
}

// Stop drains in-flight requests, waiting at most the shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "HTTP server shutdown failed")
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

//Personal.AI order the ending
