package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quakemap/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/quakemap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quakemap/internal/adapter/kafka"
	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/loader"
	"github.com/couchcryptid/quakemap/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	session := domain.NewMapSession(domain.DefaultMapView())
	fetcher := feed.NewClient(cfg.EarthquakeFeedURL, cfg.TectonicPlatesURL, cfg.FetchTimeout, metrics, logger)

	// Initialize marker sink (feature-flagged via KAFKA_BROKERS).
	var sink loader.MarkerSink
	var writer *kafkaadapter.Writer
	if cfg.SinkEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("kafka marker sink enabled", "topic", cfg.KafkaMarkerTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka marker sink disabled")
	}

	l := loader.New(fetcher, sink, session, logger, metrics).WithRefresh(cfg.RefreshInterval, nil)

	srv := httpadapter.NewServer(cfg.HTTPAddr, session, l, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start data loader.
	go func() {
		if err := l.Run(ctx); err != nil {
			logger.Error("loader error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
