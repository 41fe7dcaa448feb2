package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"board-automation/internal/webhook"
	"board-automation/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Storage
	postgresDB *pgxpool.Pool

	// Internal service auth
	internalKey string

	// Engine tuning
	maxChainDepth int
	ruleCacheSize int
	ruleCacheTTL  time.Duration

	// Outbound webhooks
	webhookConfig webhook.Config
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string

	// Storage
	PostgresDB *pgxpool.Pool

	// Internal service auth
	InternalKey string

	// Engine tuning
	MaxChainDepth int
	RuleCacheSize int
	RuleCacheTTL  time.Duration

	// Outbound webhooks
	WebhookConfig webhook.Config
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:             logger,
		gin:           gin.Default(),
		port:          cfg.Port,
		mode:          cfg.Mode,
		environment:   cfg.Environment,
		postgresDB:    cfg.PostgresDB,
		internalKey:   cfg.InternalKey,
		maxChainDepth: cfg.MaxChainDepth,
		ruleCacheSize: cfg.RuleCacheSize,
		ruleCacheTTL:  cfg.RuleCacheTTL,
		webhookConfig: cfg.WebhookConfig,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.postgresDB == nil {
		return errors.New("postgres pool is required")
	}
	return nil
}
