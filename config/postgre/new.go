package postgre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"board-automation/pkg/log"
)

// Config holds connection pool settings.
type Config struct {
	URI      string
	MaxConns int32
	MinConns int32
}

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, cfg Config, l log.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("parse postgres uri: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	l.Info(ctx, "postgres connected")
	return pool, nil
}

// Disconnect closes the pool.
func Disconnect(ctx context.Context, pool *pgxpool.Pool, l log.Logger) {
	pool.Close()
	l.Info(ctx, "postgres connection closed")
}
