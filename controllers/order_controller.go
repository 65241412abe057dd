package controllers

import (
	"log/slog"
	"net/http"

	"github.com/aquablue/aquablue-server/metrics"
	"github.com/aquablue/aquablue-server/middleware"
	"github.com/aquablue/aquablue-server/models"
	"github.com/aquablue/aquablue-server/services"
	"github.com/aquablue/aquablue-server/utils"
	"github.com/gin-gonic/gin"
)

// orderRequiredFields are checked in this order; the first missing one is reported
var orderRequiredFields = []string{"name", "mobile", "address", "productType", "quantity", "deliveryTime", "deliveryDate"}

// CreateOrderRequest is an order submission after quantity coercion
type CreateOrderRequest struct {
	Name         string `json:"name" validate:"required"`
	Mobile       string `json:"mobile" validate:"required"`
	Email        string `json:"email"`
	Address      string `json:"address" validate:"required"`
	ProductType  string `json:"productType" validate:"required"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	DeliveryTime string `json:"deliveryTime" validate:"required"`
	DeliveryDate string `json:"deliveryDate" validate:"required"`
	Notes        string `json:"notes"`
}

// OrderRecord is the listing representation of an order
type OrderRecord struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	ProductType  string `json:"product_type"`
	Quantity     int    `json:"quantity"`
	DeliveryTime string `json:"delivery_time"`
	DeliveryDate string `json:"delivery_date"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// OrderController handles the order API
type OrderController struct {
	store         services.Store
	notifications SubmissionNotifier
	log           *slog.Logger
}

// NewOrderController creates an order controller
func NewOrderController(store services.Store, notifications SubmissionNotifier, logger *slog.Logger) *OrderController {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderController{store: store, notifications: notifications, log: logger}
}

// ParseCreateOrderRequest validates a decoded payload and coerces its quantity
func ParseCreateOrderRequest(payload map[string]any) (*CreateOrderRequest, error) {
	if err := utils.RequireFields(payload, orderRequiredFields...); err != nil {
		return nil, err
	}

	quantity, err := utils.CoerceInt("quantity", payload["quantity"])
	if err != nil {
		return nil, err
	}

	req := &CreateOrderRequest{
		Name:         utils.StringField(payload, "name"),
		Mobile:       utils.StringField(payload, "mobile"),
		Email:        utils.StringField(payload, "email"),
		Address:      utils.StringField(payload, "address"),
		ProductType:  utils.StringField(payload, "productType"),
		Quantity:     quantity,
		DeliveryTime: utils.StringField(payload, "deliveryTime"),
		DeliveryDate: utils.StringField(payload, "deliveryDate"),
		Notes:        utils.StringField(payload, "notes"),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Create handles POST /api/orders
func (oc *OrderController) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		metrics.SubmissionsRejectedTotal.WithLabelValues("order", "malformed").Inc()
		return
	}

	req, err := ParseCreateOrderRequest(payload)
	if err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("order", "validation").Inc()
		if !respondValidation(c, err) {
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	order := models.Order{
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Address:      req.Address,
		ProductType:  req.ProductType,
		Quantity:     req.Quantity,
		DeliveryTime: req.DeliveryTime,
		DeliveryDate: req.DeliveryDate,
		Notes:        req.Notes,
		Status:       models.OrderStatusPending,
	}

	id, err := oc.store.CreateOrder(c.Request.Context(), &order)
	if err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("order", "store").Inc()
		oc.log.Error("failed to create order", "error", err)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	reference := models.FormatOrderReference(id)
	metrics.OrdersCreatedTotal.Inc()
	oc.log.Info("order created", "order_id", reference)

	oc.notifications.OrderPlaced(order, reference)

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Order placed successfully",
		"order_id": reference,
	})
}

// List handles GET /api/orders - every order, newest first
func (oc *OrderController) List(c *gin.Context) {
	orders, err := oc.store.ListOrders(c.Request.Context(), 0)
	if err != nil {
		oc.log.Error("failed to list orders", "error", err)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	oc.log.Info("orders listed", "operator", middleware.AdminIdentity(c), "count", len(orders))

	records := make([]OrderRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, toOrderRecord(o))
	}
	c.JSON(http.StatusOK, records)
}

const createdAtLayout = "2006-01-02 15:04:05"

func toOrderRecord(o models.Order) OrderRecord {
	return OrderRecord{
		ID:           o.ID,
		Name:         o.Name,
		Mobile:       o.Mobile,
		Email:        o.Email,
		Address:      o.Address,
		ProductType:  o.ProductType,
		Quantity:     o.Quantity,
		DeliveryTime: o.DeliveryTime,
		DeliveryDate: o.DeliveryDate,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt.UTC().Format(createdAtLayout),
	}
}
