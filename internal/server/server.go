// Package server exposes the query pipeline and classification proxy over
// HTTP for the web front end.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tracevar/tracevar/pkg/integrations/classify"
	"github.com/tracevar/tracevar/pkg/pipeline"
)

// Server is the tracevar HTTP API server.
type Server struct {
	runner   *pipeline.Runner
	classify *classify.Client
	addr     string
	logger   *log.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Runner   *pipeline.Runner
	Classify *classify.Client
	Addr     string
	Logger   *log.Logger
}

// New creates an API server. Runner is required; Classify may be nil, in
// which case the classification proxy responds 503.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:   cfg.Runner,
		classify: cfg.Classify,
		addr:     cfg.Addr,
		logger:   logger,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		s.logRequests,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/lineage", s.handleLineage)
		r.Post("/classify", s.handleClassify)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- fmt.Errorf("server error: %w", err)
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Debug("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
