package controllers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/aquablue/aquablue-server/middleware"
	"github.com/aquablue/aquablue-server/models"
	"github.com/aquablue/aquablue-server/services"
	"github.com/gin-gonic/gin"
)

//go:embed templates/admin.html
var templateFS embed.FS

var adminTemplate = template.Must(template.New("admin.html").Funcs(template.FuncMap{
	"reference": models.FormatOrderReference,
	"timestamp": func(t time.Time) string { return t.UTC().Format(createdAtLayout) },
}).ParseFS(templateFS, "templates/admin.html"))

// AdminView is the data rendered on the operator page
type AdminView struct {
	Orders   []models.Order
	Messages []models.ContactMessage
}

// AdminController renders the operator-facing listing
type AdminController struct {
	store services.Store
	log   *slog.Logger
}

// NewAdminController creates an admin controller
func NewAdminController(store services.Store, logger *slog.Logger) *AdminController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminController{store: store, log: logger}
}

// Show handles GET /admin with the most recent orders and messages
func (ac *AdminController) Show(c *gin.Context) {
	ctx := c.Request.Context()

	orders, err := ac.store.ListOrders(ctx, services.AdminListingLimit)
	if err != nil {
		ac.fail(c, err)
		return
	}
	messages, err := ac.store.ListContactMessages(ctx, services.AdminListingLimit)
	if err != nil {
		ac.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := adminTemplate.Execute(&buf, AdminView{Orders: orders, Messages: messages}); err != nil {
		ac.fail(c, err)
		return
	}

	ac.log.Info("admin page viewed", "operator", middleware.AdminIdentity(c), "orders", len(orders), "messages", len(messages))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (ac *AdminController) fail(c *gin.Context, err error) {
	ac.log.Error("failed to render admin page", "error", err)
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Failed to load admin data")
}
