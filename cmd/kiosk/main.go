package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/checkwx"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/demo"
	httpadapter "github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/kafka"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/poller"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/store"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/config"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/observability"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Weather provider: CheckWX behind a TTL cache, or the demo report when no key is set.
	var provider domain.WeatherProvider
	source := "checkwx"
	if cfg.DemoMode() {
		provider = demo.NewProvider()
		source = "demo"
		logger.Warn("CHECKWX_API_KEY not set, serving demo weather")
	} else {
		client := checkwx.NewClient(cfg.CheckWXAPIKey, cfg.CheckWXBaseURL, cfg.CheckWXTimeout, metrics, logger)
		provider = checkwx.NewCachedProvider(client, cfg.CacheSize, cfg.CacheTTL, metrics)
		logger.Info("checkwx provider enabled", "cache_size", cfg.CacheSize, "cache_ttl", cfg.CacheTTL, "timeout", cfg.CheckWXTimeout)
	}

	stations := cfg.Airfield.AllStations()
	pl := poller.New(provider, stations, cfg.RefreshInterval, source, logger)
	logger.Info("polling stations", "stations", stations, "interval", cfg.RefreshInterval)

	snapshots := store.New()
	loaders := pipeline.FanOut{snapshots}

	// Kafka sink (feature-flagged via KAFKA_ENABLED).
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	transformer := pipeline.NewTransformer(logger, metrics)
	p := pipeline.New(pl, transformer, loaders, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, snapshots, cfg.Airfield, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start polling pipeline. The poller and writer are closed only after Run returns.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Error("pipeline did not stop before shutdown timeout")
	}
	if err := pl.Close(); err != nil {
		logger.Error("poller close error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
