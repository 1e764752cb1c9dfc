// Package db opens the gorm connection used by every repository.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_tracker/internal/platform/config"
)

const (
	connectTimeout = 60 * time.Second
	connectBackoff = 3 * time.Second
)

// OpenDB opens the database selected by cfg.DBDriver, retrying for up to 60s,
// and runs AutoMigrate for models when cfg.RunMigrations is set.
func OpenDB(cfg *config.Config, models ...any) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{TranslateError: true}

	var db *gorm.DB
	deadline := time.Now().Add(connectTimeout)
	for {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", connectTimeout, err)
		}
		slog.Warn("DB connect failed, retrying", "driver", cfg.DBDriver, "error", err)
		time.Sleep(connectBackoff)
	}
	slog.Info("DB connection successful", "driver", cfg.DBDriver)

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
