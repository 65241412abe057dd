package services

import (
	"context"
	"sync"
	"time"

	"github.com/aquablue/aquablue-server/models"
)

// MockStore is an in-memory Store for testing. Setting Err makes every call fail
// as if the database were unavailable.
type MockStore struct {
	mu       sync.Mutex
	orders   []models.Order
	messages []models.ContactMessage
	Err      error
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// CreateOrder records order and assigns the next ID
func (m *MockStore) CreateOrder(ctx context.Context, order *models.Order) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, &StoreError{Op: "create order", Err: m.Err}
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.ID = uint(len(m.orders) + 1)
	order.CreatedAt = time.Now()
	m.orders = append(m.orders, *order)
	return order.ID, nil
}

// CreateContactMessage records message and assigns the next ID
func (m *MockStore) CreateContactMessage(ctx context.Context, message *models.ContactMessage) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, &StoreError{Op: "create contact message", Err: m.Err}
	}
	message.ID = uint(len(m.messages) + 1)
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, *message)
	return message.ID, nil
}

// ListOrders returns recorded orders newest first
func (m *MockStore) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, &StoreError{Op: "list orders", Err: m.Err}
	}
	out := []models.Order{}
	for i := len(m.orders) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.orders[i])
	}
	return out, nil
}

// ListContactMessages returns recorded messages newest first
func (m *MockStore) ListContactMessages(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, &StoreError{Op: "list contact messages", Err: m.Err}
	}
	out := []models.ContactMessage{}
	for i := len(m.messages) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.messages[i])
	}
	return out, nil
}
