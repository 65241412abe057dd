package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus collectors for submissions, notifications and HTTP traffic
var (
	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aquablue_orders_created_total",
			Help: "Total number of orders persisted",
		},
	)

	ContactMessagesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aquablue_contact_messages_created_total",
			Help: "Total number of contact messages persisted",
		},
	)

	SubmissionsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquablue_submissions_rejected_total",
			Help: "Total number of submissions rejected, by kind and reason",
		},
		[]string{"kind", "reason"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquablue_notifications_total",
			Help: "Total number of notification attempts, by kind and result",
		},
		[]string{"kind", "result"},
	)

	NotificationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aquablue_notification_duration_seconds",
			Help:    "Duration of notification attempts",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		OrdersCreatedTotal,
		ContactMessagesCreatedTotal,
		SubmissionsRejectedTotal,
		NotificationsTotal,
		NotificationDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
