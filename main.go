package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquablue/aquablue-server/config"
	"github.com/aquablue/aquablue-server/logging"
	"github.com/aquablue/aquablue-server/services"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout          = 10 * time.Second
	notificationDrainTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}
	logger := logging.Setup(cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting Aqua Blue server", "env", cfg.GoEnv, "port", cfg.Port)

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	if err := config.Migrate(db); err != nil {
		logging.Fatal("failed to migrate database", "error", err)
	}
	logger.Info("database ready", "postgres", cfg.UsesPostgres())

	pages, err := services.NewPageSource(context.Background(), cfg)
	if err != nil {
		logging.Fatal("failed to set up page source", "error", err)
	}

	if !cfg.NotificationsEnabled() {
		logger.Warn("SMTP credentials not configured, email notifications are disabled")
	}
	notifier := services.NewMailNotifier(services.MailSettingsFromConfig(cfg), logger)
	dispatcher := services.NewDispatcher(notifier, cfg.SMTPTimeoutDuration(), logger)

	router, err := setupRouter(&app{
		cfg:           cfg,
		db:            db,
		store:         services.NewGormStore(db),
		pages:         pages,
		notifications: dispatcher,
		log:           logger,
	})
	if err != nil {
		logging.Fatal("failed to set up routes", "error", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), notificationDrainTimeout)
	defer drainCancel()
	if err := dispatcher.Wait(drainCtx); err != nil {
		logger.Warn("notifications still in flight at exit", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
