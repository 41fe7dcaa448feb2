package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Postgres PostgresConfig

	// Engine
	Automation AutomationConfig
	Webhook    WebhookConfig
	Scheduler  SchedulerConfig

	// Internal service auth
	InternalKey string
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type PostgresConfig struct {
	URI      string
	MaxConns int32
	MinConns int32
}

// AutomationConfig tunes the rule engine.
type AutomationConfig struct {
	// MaxChainDepth bounds re-entrant trigger chains.
	MaxChainDepth int

	// Rule cache on the dispatch path.
	RuleCacheSize int
	RuleCacheTTL  time.Duration
}

// WebhookConfig tunes outbound webhook delivery.
type WebhookConfig struct {
	Secret          string
	Timeout         time.Duration
	RateLimitPerMin int
}

// SchedulerConfig tunes the due-date scanner.
type SchedulerConfig struct {
	// Interval between scans.
	Interval time.Duration

	// ApproachingWindow is how far ahead a deadline counts as
	// approaching.
	ApproachingWindow time.Duration

	// BatchLimit caps tasks handled per scan and edge.
	BatchLimit int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.Postgres.URI = viper.GetString("postgres.uri")
	if pgURI := viper.GetString("postgres_uri"); pgURI != "" {
		cfg.Postgres.URI = pgURI
	}
	cfg.Postgres.MaxConns = viper.GetInt32("postgres.max_conns")
	cfg.Postgres.MinConns = viper.GetInt32("postgres.min_conns")
	if cfg.Postgres.URI == "" {
		return nil, fmt.Errorf("postgres.uri is required")
	}

	// Engine
	cfg.Automation.MaxChainDepth = viper.GetInt("automation.max_chain_depth")
	cfg.Automation.RuleCacheSize = viper.GetInt("automation.rule_cache_size")
	cfg.Automation.RuleCacheTTL = viper.GetDuration("automation.rule_cache_ttl")

	// Webhooks
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.Timeout = viper.GetDuration("webhook.timeout")
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	// Scheduler
	cfg.Scheduler.Interval = viper.GetDuration("scheduler.interval")
	cfg.Scheduler.ApproachingWindow = viper.GetDuration("scheduler.approaching_window")
	cfg.Scheduler.BatchLimit = viper.GetInt("scheduler.batch_limit")

	// Internal service auth
	cfg.InternalKey = viper.GetString("internal.key")
	if internalKey := viper.GetString("internal_key"); internalKey != "" {
		cfg.InternalKey = internalKey
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.min_conns", 2)

	viper.SetDefault("automation.max_chain_depth", 5)
	viper.SetDefault("automation.rule_cache_size", 512)
	viper.SetDefault("automation.rule_cache_ttl", time.Minute)

	viper.SetDefault("webhook.timeout", 10*time.Second)
	viper.SetDefault("webhook.rate_limit_per_min", 60)

	viper.SetDefault("scheduler.interval", time.Minute)
	viper.SetDefault("scheduler.approaching_window", 24*time.Hour)
	viper.SetDefault("scheduler.batch_limit", 200)
}
