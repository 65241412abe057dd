package main

import (
	"log/slog"

	"github.com/aquablue/aquablue-server/config"
	"github.com/aquablue/aquablue-server/controllers"
	"github.com/aquablue/aquablue-server/middleware"
	"github.com/aquablue/aquablue-server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// pageRoutes maps each public path to the page file it serves
var pageRoutes = map[string]string{
	"/":             "index.html",
	"/about":        "about.html",
	"/services":     "services.html",
	"/order":        "order.html",
	"/contact":      "contact.html",
	"/contact.html": "contact.html",
}

// app holds everything the router needs
type app struct {
	cfg           *config.Config
	db            *gorm.DB
	store         services.Store
	pages         services.PageSource
	notifications controllers.SubmissionNotifier
	log           *slog.Logger
}

// setupRouter creates and configures the router for the whole site
func setupRouter(a *app) (*gin.Engine, error) {
	if a.log == nil {
		a.log = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.log))
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware(a.cfg))

	adminAccess, err := middleware.AdminAccess(a.cfg)
	if err != nil {
		return nil, err
	}

	pageController := controllers.NewPageController(a.pages, a.log)
	orderController := controllers.NewOrderController(a.store, a.notifications, a.log)
	contactController := controllers.NewContactController(a.store, a.notifications, a.log)
	adminController := controllers.NewAdminController(a.store, a.log)
	healthController := controllers.NewHealthController(a.db)

	for path, file := range pageRoutes {
		router.GET(path, pageController.Serve(file))
	}

	api := router.Group("/api")
	{
		api.POST("/orders", orderController.Create)
		api.POST("/contact", contactController.Create)

		api.GET("/health", healthController.Health)
		api.GET("/database/status", healthController.DatabaseStatus)
	}

	// Operator-only routes
	admin := router.Group("/", adminAccess...)
	{
		admin.GET("/admin", adminController.Show)
		admin.GET("/api/orders", orderController.List)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cors.New(corsConfig)
}
