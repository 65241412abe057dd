package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aquablue/aquablue-server/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteBusyTimeout makes concurrent writers wait on the file lock instead of failing.
const sqliteBusyTimeout = "_busy_timeout=5000"

// OpenDatabase opens the store named by cfg.DatabaseURL.
// PostgreSQL URLs use the postgres driver; anything else is treated as a SQLite file path.
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	if cfg.UsesPostgres() {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established", "driver", dialector.Name())
	return db, nil
}

// Migrate creates the orders and contact_messages tables if they are absent.
// It is safe to run on every startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Order{}, &models.ContactMessage{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "_busy_timeout") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + sqliteBusyTimeout
	}
	return path + "?" + sqliteBusyTimeout
}
