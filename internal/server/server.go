// Package server exposes the engine over a small JSON control-panel API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ogostos/optledger/internal/engine"
)

// Server serves reconciliation results and account summaries over HTTP.
type Server struct {
	router *chi.Mux
	server *http.Server
	engine *engine.Engine
	logger *logrus.Logger
}

// Config holds the server settings.
type Config struct {
	Port int
}

// New creates a server around the engine.
func New(eng *engine.Engine, cfg Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		router: chi.NewRouter(),
		engine: eng,
		logger: logger,
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/positions", s.handlePositions)
	s.router.Get("/api/summary", s.handleSummary)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the HTTP server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("control panel listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Run(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("reconciliation pass failed")
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Run(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("summary fetch failed")
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, result.Summary)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("encoding response")
	}
}
