package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatusPending is the only status an order takes in this system
const OrderStatusPending = "pending"

// OrderReferencePrefix is prepended to the zero-padded order ID in customer-facing references
const OrderReferencePrefix = "AQB-"

// Order represents a water delivery request submitted by a customer
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Mobile       string    `gorm:"not null" json:"mobile"`
	Email        string    `json:"email"` // optional
	Address      string    `gorm:"not null" json:"address"`
	ProductType  string    `gorm:"not null" json:"product_type"`
	Quantity     int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	DeliveryTime string    `gorm:"not null" json:"delivery_time"`
	DeliveryDate string    `gorm:"not null" json:"delivery_date"`
	Notes        string    `json:"notes"` // optional
	Status       string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate defaults the status of new orders
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// Reference returns the customer-facing order reference, e.g. AQB-00000042
func (o Order) Reference() string {
	return FormatOrderReference(o.ID)
}

// FormatOrderReference formats an order ID as the fixed prefix plus an 8-digit zero-padded number
func FormatOrderReference(id uint) string {
	return fmt.Sprintf("%s%08d", OrderReferencePrefix, id)
}
