package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports process and database status
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates a health controller for db
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health handles GET /api/health
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Aqua Blue API is running",
	})
}

// DatabaseStatus handles GET /api/database/status - checks connectivity and lists tables
func (hc *HealthController) DatabaseStatus(c *gin.Context) {
	sqlDB, err := hc.db.DB()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get database instance")
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "Database connection failed")
		return
	}

	tables, err := hc.db.Migrator().GetTables()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to query tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
