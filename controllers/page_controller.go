package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aquablue/aquablue-server/services"
	"github.com/gin-gonic/gin"
)

// expiredDate is sent as Expires so no cache treats the page as fresh
const expiredDate = "Thu, 01 Jan 1970 00:00:00 GMT"

// PageController serves the marketing pages
type PageController struct {
	pages services.PageSource
	log   *slog.Logger
}

// NewPageController creates a page controller reading from pages
func NewPageController(pages services.PageSource, logger *slog.Logger) *PageController {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageController{pages: pages, log: logger}
}

// Serve returns a handler for the named page file. The page is read on every
// request and sent with headers that forbid caching anywhere along the way.
func (pc *PageController) Serve(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := pc.pages.ReadPage(c.Request.Context(), name)
		if errors.Is(err, services.ErrPageNotFound) {
			c.String(http.StatusNotFound, "File not found: %s", name)
			return
		}
		if err != nil {
			pc.log.Error("failed to read page", "page", name, "error", err)
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "Error reading file: %s", name)
			return
		}

		pc.log.Debug("serving page", "page", name, "bytes", len(page.Content), "modified", page.ModTime)

		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, max-age=0, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", expiredDate)
		c.Header("Last-Modified", page.ModTime.UTC().Format(http.TimeFormat))
		c.Header("ETag", fmt.Sprintf(`"%d"`, page.ModTime.Unix()))
		c.Header("X-Accel-Expires", "0")
		c.Data(http.StatusOK, "text/html; charset=utf-8", page.Content)
	}
}
