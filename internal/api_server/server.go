package api_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/backoffice-ledger/internal/api_server/handler"
	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/config"
	"github.com/backoffice-ledger/internal/domain/activity"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// Services groups the application services the API exposes
type Services struct {
	Registry   bookkeeping.RegistryService
	Finance    bookkeeping.FinanceService
	Entries    bookkeeping.EntryService
	Generator  bookkeeping.Generator
	ActivityDB activity.Repository
	// Probes are checked by GET /health/ready, keyed by dependency name
	Probes map[string]Pinger
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, svc Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter, handlers{
		registry:   handler.NewRegistryHandler(log, svc.Registry),
		finance:    handler.NewFinanceHandler(log, svc.Finance),
		entries:    handler.NewEntryHandler(log, svc.Entries, svc.ActivityDB),
		recurrence: handler.NewRecurrenceHandler(log, svc.Generator),
	}, svc.Probes)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler exposes the configured router
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, bounded by the write timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
