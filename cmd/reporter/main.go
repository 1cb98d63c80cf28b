// Command reporter generates the daily report of every configured venue and
// saves it through the reporting backend.
//
// With REPORT_INTERVAL unset it runs once and exits; per-venue failures are
// logged but never change the exit code. With a positive REPORT_INTERVAL it
// keeps running, reporting on every tick and serving /healthz, /readyz and
// /metrics on HTTP_ADDR.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/pallapizza/daily-report-runner/internal/adapter/backend"
	httpadapter "github.com/pallapizza/daily-report-runner/internal/adapter/http"
	kafkaadapter "github.com/pallapizza/daily-report-runner/internal/adapter/kafka"
	"github.com/pallapizza/daily-report-runner/internal/config"
	"github.com/pallapizza/daily-report-runner/internal/observability"
	"github.com/pallapizza/daily-report-runner/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, sharedobs.NewLogger)
	stop()
	os.Exit(code)
}

// loggerFunc builds a logger from a LOG_LEVEL and LOG_FORMAT pair.
type loggerFunc func(level, format string) *slog.Logger

func run(ctx context.Context, newLogger loggerFunc) int {
	cfg, err := config.Load()
	if err != nil {
		console := newLogger("info", "text")
		if errors.Is(err, config.ErrBackendURLMissing) {
			console.Error("❌ ERROR: " + err.Error())
		} else {
			console.Error("failed to load config", "error", err)
		}
		return 1
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.RequestTimeout, metrics, logger)
	runner := pipeline.New(client, client, pipeline.Settings{
		BackendURL: cfg.BackendURL,
		Venues:     cfg.Venues,
		Lang:       cfg.Lang,
		Tone:       cfg.Tone,
	}, logger, metrics)

	// Optional Kafka fan-out (enabled via KAFKA_BROKERS).
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		runner.WithPublisher(writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if !cfg.Scheduled() {
		runner.RunOnce(ctx)
		if cfg.PushgatewayURL != "" {
			if err := metrics.Push(ctx, cfg.PushgatewayURL); err != nil {
				logger.Warn("metrics push failed", "error", err)
			}
		}
		return 0
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, metrics.Registry, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := runner.Run(ctx, cfg.ReportInterval); err != nil {
		logger.Error("scheduler error", "error", err)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return 0
}
