package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flipfit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flipfit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flipfit_reservations_total",
			Help: "Total number of reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flipfit_deletions_total",
			Help: "Total number of cascading deletions by entity kind",
		},
		[]string{"kind"},
	)

	RefundedCentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flipfit_refunded_cents_total",
			Help: "Total cents credited back to customers by the deletion engine",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flipfit_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flipfit_notifications_queued_total",
			Help: "Total number of notifications queued",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordReservation tracks one reservation attempt.
// Outcome is "accepted" or the rejection kind.
func RecordReservation(outcome string) {
	ReservationsTotal.WithLabelValues(outcome).Inc()
}

func RecordDeletion(kind string) {
	DeletionsTotal.WithLabelValues(kind).Inc()
}

func RecordRefund(cents int64) {
	if cents > 0 {
		RefundedCentsTotal.Add(float64(cents))
	}
}
