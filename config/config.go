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

// Config holds all application configuration
type Config struct {
	Port        string
	GoEnv       string
	DatabaseURL string
	LogLevel    string

	// Marketing pages
	PagesDir      string
	PagesS3Bucket string
	PagesS3Prefix string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Mail relay used for best-effort notifications
	SMTPServer   string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPTimeout  string
	AdminEmail   string

	// Admin surface access control
	Auth0Domain   string
	Auth0Audience string
	AdminUsername string
	AdminPassword string

	CORSAllowedOrigins string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Info("no .env file found, using system environment variables")
		}
	} else {
		slog.Info("loaded configuration", "file", envFile)
	}

	config := &Config{
		Port:               getEnv("PORT", "5000"),
		GoEnv:              getEnv("GO_ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", "aqua_blue.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PagesDir:           getEnv("PAGES_DIR", "."),
		PagesS3Bucket:      getEnv("PAGES_S3_BUCKET", ""),
		PagesS3Prefix:      getEnv("PAGES_S3_PREFIX", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SMTPServer:         getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPTimeout:        getEnv("SMTP_TIMEOUT", "10s"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@aquablue.in"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.SMTPPort); err != nil {
		return fmt.Errorf("SMTP_PORT must be a number, got %q", c.SMTPPort)
	}
	if _, err := time.ParseDuration(c.SMTPTimeout); err != nil {
		return fmt.Errorf("SMTP_TIMEOUT must be a duration, got %q", c.SMTPTimeout)
	}
	if c.Auth0Domain != "" && c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required when AUTH0_DOMAIN is set")
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// NotificationsEnabled reports whether mail relay credentials are configured.
func (c *Config) NotificationsEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPassword != ""
}

// SMTPPortNumber returns the relay port. Validate guarantees it parses.
func (c *Config) SMTPPortNumber() int {
	port, err := strconv.Atoi(c.SMTPPort)
	if err != nil {
		return 587
	}
	return port
}

// SMTPTimeoutDuration returns the bound applied to a single relay session.
func (c *Config) SMTPTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.SMTPTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// UsesPostgres reports whether DatabaseURL points at PostgreSQL rather than a SQLite file.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
