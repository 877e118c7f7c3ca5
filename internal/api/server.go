package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// Server is the read-only HTTP API over the research store, plus the
// onboarding trigger and its websocket progress feed.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	config     *config.Config
}

// New wraps the router in an http.Server with conservative timeouts.
// The write timeout does not apply to the progress websocket: gorilla
// hijacks the connection on upgrade, so long-lived streams are safe.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
		config: cfg,
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"addr": s.httpServer.Addr,
		"env":  s.config.Env,
	}).Info("Research API listening")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops accepting connections and drains in-flight requests
// until ctx expires. Onboarding runs already started keep going; they
// run on their own contexts, not the request's.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Research API shutting down, draining connections")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
