package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brojonat/bridgehelp/service/config"
	"github.com/brojonat/bridgehelp/service/events"
	"github.com/brojonat/bridgehelp/service/metrics"
	"github.com/brojonat/bridgehelp/service/server"
	"github.com/brojonat/bridgehelp/service/support"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	// Load and validate configuration from environment
	// This fails fast if any required config is missing or invalid
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting server",
		"addr", cfg.ServerAddr,
		"log_level", cfg.LogLevel,
		"networks", cfg.Networks(),
		"resolve_timeout", cfg.ResolveTimeout,
	)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.NewMetrics(nil)
	}

	resolver, closeRPC, err := newResolver(ctx, cfg, m, logger)
	if err != nil {
		logger.Error("failed to initialize RPC clients", "error", err)
		os.Exit(1)
	}
	defer closeRPC()

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load support catalog", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		publisher, err = connectPublisher(ctx, cfg, m, logger)
		if err != nil {
			logger.Error("failed to connect event publisher", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("NATS_URL not set, options events will not be published")
	}

	svc := support.NewService(resolver, cat, cfg.ResolveTimeout, logger)
	httpServer := server.New(cfg.ServerAddr, svc, publisher, m, logger)

	logger.Info("server initialized, all dependencies ready",
		"catalog_rules", len(cat.Rules()),
		"nats_url", cfg.NATSURL,
		"metrics_enabled", cfg.MetricsEnabled,
	)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
