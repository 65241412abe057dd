package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aquablue/aquablue-server/config"
	"github.com/aquablue/aquablue-server/models"
	"github.com/wneessen/go-mail"
)

// Notifier tells the business about new submissions
type Notifier interface {
	NotifyOrder(ctx context.Context, order models.Order, reference string) error
	NotifyContact(ctx context.Context, message models.ContactMessage) error
}

// MailSettings describes the relay session used for notifications
type MailSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
	Timeout  time.Duration
}

// MailSettingsFromConfig extracts relay settings from the application config
func MailSettingsFromConfig(cfg *config.Config) MailSettings {
	return MailSettings{
		Host:     cfg.SMTPServer,
		Port:     cfg.SMTPPortNumber(),
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		To:       cfg.AdminEmail,
		Timeout:  cfg.SMTPTimeoutDuration(),
	}
}

// Enabled reports whether credentials are present
func (s MailSettings) Enabled() bool {
	return s.Username != "" && s.Password != ""
}

// sendFunc delivers one message; replaced in tests
type sendFunc func(ctx context.Context, msg *mail.Msg) error

// MailNotifier submits plain-text notification emails to an authenticated SMTP relay
type MailNotifier struct {
	settings MailSettings
	send     sendFunc
	now      func() time.Time
	log      *slog.Logger
}

// NewMailNotifier creates a notifier for the given relay settings.
// Without credentials every notification is skipped.
func NewMailNotifier(settings MailSettings, logger *slog.Logger) *MailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &MailNotifier{
		settings: settings,
		now:      time.Now,
		log:      logger.With("component", "notifier"),
	}
	n.send = n.dialAndSend
	return n
}

// NotifyOrder emails the admin address about a new order
func (n *MailNotifier) NotifyOrder(ctx context.Context, order models.Order, reference string) error {
	subject, body := FormatOrderEmail(order, reference, n.now())
	return n.deliver(ctx, subject, body)
}

// NotifyContact emails the admin address about a new contact message
func (n *MailNotifier) NotifyContact(ctx context.Context, message models.ContactMessage) error {
	subject, body := FormatContactEmail(message, n.now())
	return n.deliver(ctx, subject, body)
}

func (n *MailNotifier) deliver(ctx context.Context, subject, body string) error {
	if !n.settings.Enabled() {
		n.log.Info("SMTP credentials not configured, skipping email", "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(n.settings.Username); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(n.settings.To); err != nil {
		return fmt.Errorf("invalid admin address: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (n *MailNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(n.settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.settings.Username),
		mail.WithPassword(n.settings.Password),
		mail.WithTimeout(n.settings.Timeout),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if n.settings.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(n.settings.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

const receivedAtLayout = "2006-01-02 15:04:05"

// FormatOrderEmail renders the subject and body of a new-order notification
func FormatOrderEmail(order models.Order, reference string, receivedAt time.Time) (string, string) {
	var b strings.Builder
	b.WriteString("New Order Received!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", reference)
	fmt.Fprintf(&b, "Name: %s\n", order.Name)
	fmt.Fprintf(&b, "Mobile: %s\n", order.Mobile)
	fmt.Fprintf(&b, "Email: %s\n", orDefault(order.Email, "N/A"))
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	fmt.Fprintf(&b, "Product: %s\n", order.ProductType)
	fmt.Fprintf(&b, "Quantity: %d\n", order.Quantity)
	fmt.Fprintf(&b, "Delivery Date: %s\n", order.DeliveryDate)
	fmt.Fprintf(&b, "Delivery Time: %s\n", order.DeliveryTime)
	fmt.Fprintf(&b, "Notes: %s\n\n", orDefault(order.Notes, "None"))
	fmt.Fprintf(&b, "Order placed at: %s\n", receivedAt.Format(receivedAtLayout))

	return "New Order Received - " + reference, b.String()
}

// FormatContactEmail renders the subject and body of a contact-form notification
func FormatContactEmail(message models.ContactMessage, receivedAt time.Time) (string, string) {
	var b strings.Builder
	b.WriteString("New Contact Form Submission!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", message.Name)
	fmt.Fprintf(&b, "Email: %s\n", message.Email)
	fmt.Fprintf(&b, "Phone: %s\n", message.Phone)
	fmt.Fprintf(&b, "Subject: %s\n\n", message.Subject)
	fmt.Fprintf(&b, "Message:\n%s\n\n", message.Message)
	fmt.Fprintf(&b, "Received at: %s\n", receivedAt.Format(receivedAtLayout))

	return "New Contact Message - " + message.Subject, b.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
