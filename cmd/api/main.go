package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ndr-srv/config"
	"ndr-srv/internal/app"
	"ndr-srv/internal/httpserver"
	"ndr-srv/internal/middleware"
	"ndr-srv/pkg/log"
)

// @title       NDR Service API
// @description Failed-delivery exception engine: rules, NDR lifecycle, action approvals and customer outreach.
// @version     1.0
// @host        localhost:8080
// @schemes     http
// @BasePath    /api/v1
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Bearer token authentication. Format: "Bearer {token}"
//
// @securityDefinitions.apikey InternalKey
// @in header
// @name X-Internal-Key
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

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting NDR API...")

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

	if n, err := uc.Rule.SeedDefaults(ctx); err != nil {
		logger.Errorf(ctx, "Failed to seed default rules: %v", err)
		return
	} else if n > 0 {
		logger.Infof(ctx, "Seeded %d default rules", n)
	}

	// In-process scheduler for single-binary deployments.
	if cfg.Scheduler.Enabled {
		go func() {
			if err := uc.Scheduler.Run(ctx); err != nil {
				logger.Errorf(ctx, "Scheduler stopped: %v", err)
			}
		}()
		logger.Infof(ctx, "In-process scheduler started, interval %s", cfg.Scheduler.Interval)
	}

	httpServer, err := httpserver.New(logger, httpserver.Config{
		// Server Configuration
		Host:        cfg.HTTPServer.Host,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,

		UseCases: uc,

		// Authentication & Security Configuration
		JWTSecretKey:    cfg.JWT.SecretKey,
		InternalKeyHash: cfg.InternalKey.Hash,

		// Outreach throttle
		SendRateLimit: middleware.RateLimitConfig{
			Limit:  cfg.Outreach.SendRateLimit,
			Window: cfg.Outreach.SendRateWindow,
		},

		// Monitoring & Notification Configuration
		DB:      deps.DB,
		Redis:   deps.Redis,
		Discord: deps.Discord,
		Metrics: deps.Metrics,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return
	}
	logger.Info(context.Background(), "NDR API stopped gracefully")
}
