package controllers

import (
	"log/slog"
	"net/http"

	"github.com/aquablue/aquablue-server/metrics"
	"github.com/aquablue/aquablue-server/models"
	"github.com/aquablue/aquablue-server/services"
	"github.com/aquablue/aquablue-server/utils"
	"github.com/gin-gonic/gin"
)

var contactRequiredFields = []string{"name", "email", "phone", "subject", "message"}

// CreateContactRequest represents a contact form submission
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ContactController handles the contact form API
type ContactController struct {
	store         services.Store
	notifications SubmissionNotifier
	log           *slog.Logger
}

// NewContactController creates a contact controller
func NewContactController(store services.Store, notifications SubmissionNotifier, logger *slog.Logger) *ContactController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactController{store: store, notifications: notifications, log: logger}
}

// ParseCreateContactRequest validates a decoded contact payload
func ParseCreateContactRequest(payload map[string]any) (*CreateContactRequest, error) {
	if err := utils.RequireFields(payload, contactRequiredFields...); err != nil {
		return nil, err
	}

	req := &CreateContactRequest{
		Name:    utils.StringField(payload, "name"),
		Email:   utils.StringField(payload, "email"),
		Phone:   utils.StringField(payload, "phone"),
		Subject: utils.StringField(payload, "subject"),
		Message: utils.StringField(payload, "message"),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Create handles POST /api/contact
func (cc *ContactController) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		metrics.SubmissionsRejectedTotal.WithLabelValues("contact", "malformed").Inc()
		return
	}

	req, err := ParseCreateContactRequest(payload)
	if err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("contact", "validation").Inc()
		if !respondValidation(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	message := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}

	if _, err := cc.store.CreateContactMessage(c.Request.Context(), &message); err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("contact", "store").Inc()
		cc.log.Error("failed to create contact message", "error", err)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	metrics.ContactMessagesCreatedTotal.Inc()
	cc.log.Info("contact message created", "contact_id", message.ID)

	cc.notifications.ContactReceived(message)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent successfully",
	})
}
