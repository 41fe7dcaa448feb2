package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"board-automation/config"
	"board-automation/config/postgre"
	automationRepo "board-automation/internal/automation/repository"
	automationPostgre "board-automation/internal/automation/repository/postgre"
	automationUC "board-automation/internal/automation/usecase"
	"board-automation/internal/scheduler"
	taskRepo "board-automation/internal/task/repository/postgre"
	taskUC "board-automation/internal/task/usecase"
	"board-automation/internal/webhook"
	"board-automation/pkg/log"
)

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

	logger.Info(ctx, "Starting Board Automation scheduler...")
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

	// 4. Engine wiring
	tasks := taskUC.New(taskRepo.New(pool, logger), logger)
	sender := webhook.NewSender(webhook.Config{
		Secret:          cfg.Webhook.Secret,
		Timeout:         cfg.Webhook.Timeout,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	}, logger)

	repo := automationPostgre.New(pool, logger)
	rules := automationRepo.NewCachedRuleRepository(repo, cfg.Automation.RuleCacheSize, cfg.Automation.RuleCacheTTL)

	engine := automationUC.New(automationUC.Config{
		RuleRepo:      rules,
		LogRepo:       repo,
		Tasks:         tasks,
		Webhooks:      sender,
		MaxChainDepth: cfg.Automation.MaxChainDepth,
	}, logger)

	// 5. Scanner loop
	scanner := scheduler.New(scheduler.Config{
		Engine:            engine,
		Tasks:             tasks,
		Interval:          cfg.Scheduler.Interval,
		ApproachingWindow: cfg.Scheduler.ApproachingWindow,
		BatchLimit:        cfg.Scheduler.BatchLimit,
		Clock:             time.Now,
	}, logger)

	scanner.Run(ctx)
	logger.Info(ctx, "Scheduler stopped gracefully")
}
