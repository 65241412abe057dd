package testutil

import (
	"testing"

	"github.com/aquablue/aquablue-server/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that lives for the duration of t.
// The pool is pinned to one connection because each SQLite :memory: connection is a separate database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// TestConfig returns a configuration suitable for tests: no notifications, no admin auth.
func TestConfig(pagesDir string) *config.Config {
	return &config.Config{
		Port:               "5000",
		GoEnv:              "test",
		DatabaseURL:        ":memory:",
		PagesDir:           pagesDir,
		SMTPServer:         "localhost",
		SMTPPort:           "2525",
		SMTPTimeout:        "1s",
		AdminEmail:         "admin@aquablue.in",
		CORSAllowedOrigins: "*",
	}
}
