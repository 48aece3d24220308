// Package server runs the operations endpoints: an HTTP server for health
// and prometheus scraping and a gRPC health service.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// DefaultCheckTimeout bounds each health check
const DefaultCheckTimeout = 2 * time.Second

// Check reports whether one dependency is usable
type Check func(ctx context.Context) error

// HTTPConfig configures the ops HTTP server
type HTTPConfig struct {
	Addr string
	// Gatherer defaults to the prometheus default gatherer
	Gatherer prometheus.Gatherer
	// Checks are run by /healthz, keyed by dependency name
	Checks map[string]Check
	// CheckTimeout defaults to DefaultCheckTimeout
	CheckTimeout time.Duration
}

// HTTPServer serves /healthz and /metrics
type HTTPServer struct {
	srv          *http.Server
	checks       map[string]Check
	checkTimeout time.Duration
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHTTPServer builds the router; call ListenAndServe to start it
func NewHTTPServer(cfg *HTTPConfig) (*HTTPServer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.Addr == "" {
		return nil, errors.Wrap(errors.NewValidationBuilder().RequiredField("Addr").Build(), "invalid config")
	}

	s := &HTTPServer{
		checks:       cfg.Checks,
		checkTimeout: cfg.CheckTimeout,
	}
	if s.checkTimeout <= 0 {
		s.checkTimeout = DefaultCheckTimeout
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler exposes the router
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe blocks until Shutdown
func (s *HTTPServer) ListenAndServe() error {
	slog.Info("ops HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "ops HTTP server failed")
	}
	return nil
}

// Shutdown drains open requests
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	code := http.StatusOK

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), s.checkTimeout)
		err := s.checks[name](ctx)
		cancel()

		if err != nil {
			slog.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
