package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ndr-srv/config"
	"ndr-srv/internal/app"
	engineKafka "ndr-srv/internal/engine/delivery/kafka"
	pkgKafka "ndr-srv/pkg/kafka"
	"ndr-srv/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting NDR scheduler...")

	deps, cleanup, err := app.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect dependencies: %v", err)
		return
	}
	defer cleanup()

	uc, err := app.Build(deps)
	if err != nil {
		logger.Errorf(ctx, "Failed to build usecases: %v", err)
		return
	}

	if _, err := uc.Rule.SeedDefaults(ctx); err != nil {
		logger.Errorf(ctx, "Failed to seed default rules: %v", err)
		return
	}

	var wg sync.WaitGroup

	// Prometheus scrape endpoint
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPServer.Host, cfg.HTTPServer.MetricsPort),
		Handler:           deps.Metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	wg.Go(func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "Metrics server error: %v", err)
		}
	})
	logger.Infof(ctx, "Metrics listening on %s", metricsServer.Addr)

	// Delivery attempt stream, evaluated as events arrive.
	if cfg.Kafka.Enabled {
		reader, err := pkgKafka.NewConsumer(pkgKafka.SplitCSV(cfg.Kafka.Brokers), cfg.Kafka.DeliveryAttemptTopic, cfg.Kafka.ConsumerGroup)
		if err != nil {
			logger.Errorf(ctx, "Failed to create Kafka consumer: %v", err)
			return
		}
		defer reader.Close()

		consumer := engineKafka.New(logger, reader, uc.Engine, deps.Metrics)
		wg.Go(func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Errorf(ctx, "Delivery attempt consumer stopped: %v", err)
			}
		})
		logger.Infof(ctx, "Consuming %s as %s", cfg.Kafka.DeliveryAttemptTopic, cfg.Kafka.ConsumerGroup)
	}

	if err := uc.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf(ctx, "Scheduler stopped: %v", err)
	}

	logger.Info(context.Background(), "Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "Error shutting down metrics server: %v", err)
	}
	wg.Wait()
	logger.Info(context.Background(), "NDR scheduler stopped gracefully")
}
