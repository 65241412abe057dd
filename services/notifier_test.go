package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aquablue/aquablue-server/config"
	"github.com/aquablue/aquablue-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func testOrder() models.Order {
	return models.Order{
		ID:           7,
		Name:         "Asha",
		Mobile:       "9876543210",
		Address:      "12 Lake Road",
		ProductType:  "20L Jar",
		Quantity:     3,
		DeliveryTime: "morning",
		DeliveryDate: "2026-10-20",
	}
}

func enabledSettings() MailSettings {
	return MailSettings{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "orders@aquablue.in",
		Password: "secret",
		To:       "admin@aquablue.in",
		Timeout:  time.Second,
	}
}

func TestFormatOrderEmail(t *testing.T) {
	subject, body := FormatOrderEmail(testOrder(), "AQB-00000007", fixedNow)

	assert.Equal(t, "New Order Received - AQB-00000007", subject)
	assert.Contains(t, body, "Order ID: AQB-00000007")
	assert.Contains(t, body, "Name: Asha")
	assert.Contains(t, body, "Mobile: 9876543210")
	assert.Contains(t, body, "Email: N/A")
	assert.Contains(t, body, "Product: 20L Jar")
	assert.Contains(t, body, "Quantity: 3")
	assert.Contains(t, body, "Delivery Date: 2026-10-20")
	assert.Contains(t, body, "Delivery Time: morning")
	assert.Contains(t, body, "Notes: None")
	assert.Contains(t, body, "Order placed at: 2026-10-14 09:30:00")

	order := testOrder()
	order.Email = "asha@example.com"
	order.Notes = "Ring twice"
	_, body = FormatOrderEmail(order, "AQB-00000007", fixedNow)
	assert.Contains(t, body, "Email: asha@example.com")
	assert.Contains(t, body, "Notes: Ring twice")
}

func TestFormatContactEmail(t *testing.T) {
	subject, body := FormatContactEmail(models.ContactMessage{
		Name: "A", Email: "a@x.com", Phone: "123", Subject: "Hi", Message: "Test",
	}, fixedNow)

	assert.Equal(t, "New Contact Message - Hi", subject)
	assert.Contains(t, body, "Name: A")
	assert.Contains(t, body, "Email: a@x.com")
	assert.Contains(t, body, "Phone: 123")
	assert.Contains(t, body, "Subject: Hi")
	assert.Contains(t, body, "Message:\nTest")
	assert.Contains(t, body, "Received at: 2026-10-14 09:30:00")
}

func TestMailSettingsFromConfig(t *testing.T) {
	settings := MailSettingsFromConfig(&config.Config{
		SMTPServer:   "smtp.gmail.com",
		SMTPPort:     "465",
		SMTPUser:     "u",
		SMTPPassword: "p",
		SMTPTimeout:  "5s",
		AdminEmail:   "admin@aquablue.in",
	})

	assert.Equal(t, "smtp.gmail.com", settings.Host)
	assert.Equal(t, 465, settings.Port)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.Equal(t, "admin@aquablue.in", settings.To)
	assert.True(t, settings.Enabled())
}

func TestMailNotifierSkipsWithoutCredentials(t *testing.T) {
	settings := enabledSettings()
	settings.Password = ""
	n := NewMailNotifier(settings, nil)

	called := false
	n.send = func(ctx context.Context, msg *mail.Msg) error {
		called = true
		return nil
	}

	assert.NoError(t, n.NotifyOrder(context.Background(), testOrder(), "AQB-00000007"))
	assert.NoError(t, n.NotifyContact(context.Background(), models.ContactMessage{Subject: "Hi"}))
	assert.False(t, called, "no mail session should be opened without credentials")
}

func TestMailNotifierBuildsMessage(t *testing.T) {
	n := NewMailNotifier(enabledSettings(), nil)
	n.now = func() time.Time { return fixedNow }

	var rendered bytes.Buffer
	n.send = func(ctx context.Context, msg *mail.Msg) error {
		_, err := msg.WriteTo(&rendered)
		return err
	}

	require.NoError(t, n.NotifyOrder(context.Background(), testOrder(), "AQB-00000007"))

	out := rendered.String()
	assert.Contains(t, out, "New Order Received - AQB-00000007")
	assert.Contains(t, out, "orders@aquablue.in")
	assert.Contains(t, out, "admin@aquablue.in")
	assert.Contains(t, out, "Order ID: AQB-00000007")
}

func TestMailNotifierReportsTransportFailure(t *testing.T) {
	n := NewMailNotifier(enabledSettings(), nil)
	n.send = func(ctx context.Context, msg *mail.Msg) error {
		return errors.New("connection refused")
	}

	err := n.NotifyContact(context.Background(), models.ContactMessage{
		Name: "A", Email: "a@x.com", Phone: "123", Subject: "Hi", Message: "Test",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMailNotifierUnreachableRelay(t *testing.T) {
	settings := enabledSettings()
	settings.Host = "127.0.0.1"
	settings.Port = 1
	n := NewMailNotifier(settings, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.Error(t, n.NotifyOrder(ctx, testOrder(), "AQB-00000007"))
}
