package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aquablue/aquablue-server/metrics"
	"github.com/aquablue/aquablue-server/models"
)

// Notification kinds
const (
	NotificationOrder   = "order"
	NotificationContact = "contact"
)

// NotificationResult is the outcome of one best-effort notification.
// It is logged and counted, never returned to the request that triggered it.
type NotificationResult struct {
	Kind     string
	Subject  string
	Err      error
	Duration time.Duration
}

// Dispatcher runs notifications in the background after a submission has been persisted
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *slog.Logger
	wg       sync.WaitGroup

	// OnResult, when set, receives every result after it is logged
	OnResult func(NotificationResult)
}

// NewDispatcher creates a dispatcher that bounds each notification by timeout
func NewDispatcher(notifier Notifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		log:      logger.With("component", "dispatcher"),
	}
}

// OrderPlaced schedules the new-order notification and returns immediately
func (d *Dispatcher) OrderPlaced(order models.Order, reference string) {
	d.dispatch(NotificationOrder, reference, func(ctx context.Context) error {
		return d.notifier.NotifyOrder(ctx, order, reference)
	})
}

// ContactReceived schedules the contact-message notification and returns immediately
func (d *Dispatcher) ContactReceived(message models.ContactMessage) {
	d.dispatch(NotificationContact, message.Subject, func(ctx context.Context) error {
		return d.notifier.NotifyContact(ctx, message)
	})
}

// Wait blocks until in-flight notifications finish or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) dispatch(kind, subject string, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		start := time.Now()
		err := d.run(send)
		d.record(NotificationResult{
			Kind:     kind,
			Subject:  subject,
			Err:      err,
			Duration: time.Since(start),
		})
	}()
}

// run never lets a notifier panic escape the goroutine
func (d *Dispatcher) run(send func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return send(ctx)
}

func (d *Dispatcher) record(result NotificationResult) {
	metrics.NotificationDuration.Observe(result.Duration.Seconds())

	if result.Err != nil {
		metrics.NotificationsTotal.WithLabelValues(result.Kind, "failed").Inc()
		d.log.Error("notification failed",
			"kind", result.Kind,
			"subject", result.Subject,
			"duration_ms", result.Duration.Milliseconds(),
			"error", result.Err,
		)
	} else {
		metrics.NotificationsTotal.WithLabelValues(result.Kind, "sent").Inc()
		d.log.Info("notification processed",
			"kind", result.Kind,
			"subject", result.Subject,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}

	if d.OnResult != nil {
		d.OnResult(result)
	}
}
