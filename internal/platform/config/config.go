// Package config loads server-wide settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds server, storage and cache settings.
type Config struct {
	// Server
	ServerPort      int
	GinMode         string
	LogLevel        slog.Level
	CORSAllowOrigin string

	// Database
	DBDriver          string
	DatabaseURL       string
	RunMigrations     bool
	SeedDefaultAssets bool

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration // 0 は次のリフレッシュ時刻までを意味する

	// Comparison
	DefaultInitialAmount float64

	// Ingest
	IngestLookbackDays int
}

// Load reads an optional .env file and builds a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg := &Config{
		ServerPort:      envInt("SERVER_PORT", 3000),
		GinMode:         envStr("GIN_MODE", ""),
		LogLevel:        envLevel("LOG_LEVEL", slog.LevelInfo),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		DBDriver:          strings.ToLower(envStr("DB_DRIVER", DriverSQLite)),
		DatabaseURL:       envStr("DATABASE_URL", "./portfolio_tracker.db"),
		RunMigrations:     envBool("RUN_MIGRATIONS", true),
		SeedDefaultAssets: envBool("SEED_DEFAULT_ASSETS", true),

		RedisHost:     envStr("REDIS_HOST", ""),
		RedisPort:     envStr("REDIS_PORT", "6379"),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		CacheTTL:      envDuration("CACHE_TTL", 0),

		DefaultInitialAmount: envFloat("DEFAULT_INITIAL_AMOUNT", 10000),

		IngestLookbackDays: envInt("INGEST_LOOKBACK_DAYS", 365),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT %d is out of range", c.ServerPort))
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		errs = append(errs, fmt.Sprintf("DB_DRIVER %q must be %q or %q", c.DBDriver, DriverSQLite, DriverPostgres))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.DefaultInitialAmount <= 0 {
		errs = append(errs, "DEFAULT_INITIAL_AMOUNT must be positive")
	}
	if c.IngestLookbackDays <= 0 {
		errs = append(errs, "INGEST_LOOKBACK_DAYS must be positive")
	}
	if c.RedisHost == "" {
		slog.Warn("REDIS_HOST not set; price cache disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.ServerPort)
}

// SQLitePath strips the "sqlite:" scheme accepted for compatibility with sqlx-style URLs.
func (c *Config) SQLitePath() string {
	p := strings.TrimPrefix(c.DatabaseURL, "sqlite://")
	return strings.TrimPrefix(p, "sqlite:")
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return lvl
}
