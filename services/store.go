package services

import (
	"context"
	"fmt"

	"github.com/aquablue/aquablue-server/models"
	"gorm.io/gorm"
)

// AdminListingLimit caps how many recent records the admin view fetches of each kind
const AdminListingLimit = 50

// Store is the persistence contract for submitted orders and contact messages.
// A limit of zero or less on a listing means no limit.
type Store interface {
	CreateOrder(ctx context.Context, order *models.Order) (uint, error)
	CreateContactMessage(ctx context.Context, message *models.ContactMessage) (uint, error)
	ListOrders(ctx context.Context, limit int) ([]models.Order, error)
	ListContactMessages(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// StoreError wraps a persistence failure with the operation that hit it
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GormStore implements Store on a gorm database handle
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateOrder inserts order in a single statement and returns its assigned ID
func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) (uint, error) {
	order.ID = 0
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return 0, &StoreError{Op: "create order", Err: err}
	}
	return order.ID, nil
}

// CreateContactMessage inserts message in a single statement and returns its assigned ID
func (s *GormStore) CreateContactMessage(ctx context.Context, message *models.ContactMessage) (uint, error) {
	message.ID = 0
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return 0, &StoreError{Op: "create contact message", Err: err}
	}
	return message.ID, nil
}

// ListOrders returns orders newest first
func (s *GormStore) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.newestFirst(ctx, limit).Find(&orders).Error; err != nil {
		return nil, &StoreError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// ListContactMessages returns contact messages newest first
func (s *GormStore) ListContactMessages(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	if err := s.newestFirst(ctx, limit).Find(&messages).Error; err != nil {
		return nil, &StoreError{Op: "list contact messages", Err: err}
	}
	return messages, nil
}

// newestFirst orders by creation time; the ID breaks ties between rows created in the same instant
func (s *GormStore) newestFirst(ctx context.Context, limit int) *gorm.DB {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
