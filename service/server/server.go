package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brojonat/bridgehelp/service/events"
	"github.com/brojonat/bridgehelp/service/metrics"
	"github.com/brojonat/bridgehelp/service/support"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server for the support options service.
type Server struct {
	addr      string
	svc       *support.Service
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	server    *http.Server
}

// New creates a new HTTP server with the given dependencies.
// The publisher is optional - if nil, outcome events are discarded.
// The metrics is optional - if nil, metrics endpoints won't be available.
func New(addr string, svc *support.Service, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Server {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Server{
		addr:      addr,
		svc:       svc,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Handler builds the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	const optionsRoute = "GET /{product}/options"
	mux.Handle(optionsRoute, metrics.HTTPMetricsMiddleware(s.metrics, optionsRoute)(
		handleGetOptions(s.svc, s.publisher, s.metrics, s.logger),
	))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint (if metrics collector is configured)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return corsMiddleware(requestIDMiddleware(s.logger)(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.metrics != nil {
		s.logger.Info("Prometheus metrics endpoint enabled")
	}
	s.logger.Info("starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server and then the event publisher.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	if perr := s.publisher.Close(); perr != nil {
		s.logger.Warn("failed to close event publisher", "error", perr)
	}
	return err
}
