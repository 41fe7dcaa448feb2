package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"board-automation/config"
	"board-automation/config/postgre"
	_ "board-automation/docs" // Swagger docs
	"board-automation/internal/httpserver"
	"board-automation/internal/webhook"
	"board-automation/pkg/log"
)

// @title       Board Automation API
// @description Kanban board automation engine: trigger ingestion, rule authoring, and execution logs.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Board Automation...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	pool, err := postgre.Connect(ctx, postgre.Config{
		URI:      cfg.Postgres.URI,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	}, logger)
	if err != nil {
		logger.Error(ctx, "Failed to connect to postgres: ", err)
		return
	}
	defer postgre.Disconnect(ctx, pool, logger)

	if err := postgre.Migrate(ctx, pool, logger); err != nil {
		logger.Error(ctx, "Failed to run migrations: ", err)
		return
	}

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,

		PostgresDB:  pool,
		InternalKey: cfg.InternalKey,

		MaxChainDepth: cfg.Automation.MaxChainDepth,
		RuleCacheSize: cfg.Automation.RuleCacheSize,
		RuleCacheTTL:  cfg.Automation.RuleCacheTTL,

		WebhookConfig: webhook.Config{
			Secret:          cfg.Webhook.Secret,
			Timeout:         cfg.Webhook.Timeout,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
