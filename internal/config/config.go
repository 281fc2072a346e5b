// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	// gRPC Server
	GRPCAddr string
	APIToken string

	// Database
	DataBackend   string
	DBConnStr     string
	SQLiteDBPath  string
	RunMigrations bool
	SeedDemo      bool

	// Cache
	RedisAddr    string
	PlanCacheTTL time.Duration

	// AMQP
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Engine
	ProjectionHorizonMonths int
	HistoryPeriods          int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		APIToken: getEnv("API_TOKEN", "dev-token"),

		DataBackend:   getEnv("DATA_BACKEND", BackendPostgres),
		DBConnStr:     postgresConnString(),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/payoff.db"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		SeedDemo:      getEnvBool("SEED_DEMO", false),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		PlanCacheTTL: getEnvDuration("PLAN_CACHE_TTL", 5*time.Minute),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "payoff"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "plan.computed"),

		ProjectionHorizonMonths: getEnvInt("PROJECTION_HORIZON_MONTHS", 24),
		HistoryPeriods:          getEnvInt("HISTORY_PERIODS", 12),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// postgresConnString prefers DB_CONN_STR and otherwise builds one from the
// individual DB_* variables (Docker friendly)
func postgresConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "payoff"),
	)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, port, err := net.SplitHostPort(c.GRPCAddr); err != nil {
		errors = append(errors, fmt.Sprintf("invalid gRPC address '%s': %v", c.GRPCAddr, err))
	} else if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		errors = append(errors, fmt.Sprintf("invalid gRPC port '%s': must be between 1 and 65535", port))
	}

	if c.APIToken == "" {
		errors = append(errors, "API token cannot be empty")
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DBConnStr == "" {
			errors = append(errors, "database connection string cannot be empty when using postgres backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendPostgres, BackendSQLite))
	}

	if c.RedisAddr != "" {
		if _, _, err := net.SplitHostPort(c.RedisAddr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Redis address '%s': %v", c.RedisAddr, err))
		}
	}
	if c.PlanCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid plan cache TTL %v: must not be negative", c.PlanCacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if c.ProjectionHorizonMonths < 1 || c.ProjectionHorizonMonths > 600 {
		errors = append(errors, fmt.Sprintf("invalid projection horizon %d: must be between 1 and 600 months", c.ProjectionHorizonMonths))
	}
	if c.HistoryPeriods < 0 || c.HistoryPeriods > 120 {
		errors = append(errors, fmt.Sprintf("invalid history periods %d: must be between 0 and 120", c.HistoryPeriods))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
