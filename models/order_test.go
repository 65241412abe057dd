package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "contact_messages", ContactMessage{}.TableName())
}

func TestFormatOrderReference(t *testing.T) {
	tests := []struct {
		id   uint
		want string
	}{
		{1, "AQB-00000001"},
		{42, "AQB-00000042"},
		{12345678, "AQB-12345678"},
		{123456789, "AQB-123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOrderReference(tt.id))
			assert.Equal(t, tt.want, Order{ID: tt.id}.Reference())
		})
	}
}

func TestBeforeCreateDefaultsStatus(t *testing.T) {
	order := &Order{}
	assert.NoError(t, order.BeforeCreate(nil))
	assert.Equal(t, OrderStatusPending, order.Status)

	order = &Order{Status: "delivered"}
	assert.NoError(t, order.BeforeCreate(nil))
	assert.Equal(t, "delivered", order.Status, "explicit status should be kept")
}
