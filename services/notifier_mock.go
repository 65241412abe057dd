package services

import (
	"context"
	"sync"

	"github.com/aquablue/aquablue-server/models"
)

// MockNotifier records notifications instead of sending them. Setting Err
// simulates an unreachable relay.
type MockNotifier struct {
	mu       sync.Mutex
	orders   []string
	contacts []models.ContactMessage
	Err      error
}

// NewMockNotifier creates a mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyOrder records the order reference
func (m *MockNotifier) NotifyOrder(ctx context.Context, order models.Order, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, reference)
	return m.Err
}

// NotifyContact records the contact message
func (m *MockNotifier) NotifyContact(ctx context.Context, message models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, message)
	return m.Err
}

// OrderReferences returns the references notified so far (for testing assertions)
func (m *MockNotifier) OrderReferences() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.orders...)
}

// ContactMessages returns the contact messages notified so far (for testing assertions)
func (m *MockNotifier) ContactMessages() []models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ContactMessage(nil), m.contacts...)
}
