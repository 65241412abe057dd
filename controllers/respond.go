package controllers

import (
	"errors"
	"net/http"

	"github.com/aquablue/aquablue-server/models"
	"github.com/aquablue/aquablue-server/utils"
	"github.com/gin-gonic/gin"
)

// SubmissionNotifier schedules best-effort notifications for persisted submissions.
// Implementations must return without waiting for delivery.
type SubmissionNotifier interface {
	OrderPlaced(order models.Order, reference string)
	ContactReceived(message models.ContactMessage)
}

// bindPayload decodes the request body into a JSON object
func bindPayload(c *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		return nil, false
	}
	return payload, true
}

// respondValidation writes a 400 for validation failures and reports whether err was one
func respondValidation(c *gin.Context, err error) bool {
	var vErr *utils.ValidationError
	if !errors.As(err, &vErr) {
		return false
	}
	respondError(c, http.StatusBadRequest, vErr.Message)
	return true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
