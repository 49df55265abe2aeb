package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the portal's application metrics.
type Metrics struct {
	// Auth flow metrics
	SignupsTotal      *prometheus.CounterVec
	SigninsTotal      *prometheus.CounterVec
	AuthFailuresTotal *prometheus.CounterVec

	// KYC proxy metrics
	KYCRequestsTotal  *prometheus.CounterVec
	KYCUpstreamErrors prometheus.Counter

	// Outbox metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SignupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Total number of successful signups",
		}, []string{"kind"}),
		SigninsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signins_total",
			Help:      "Total number of successful signins",
		}, []string{"kind"}),
		AuthFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of failed auth attempts",
		}, []string{"kind", "reason"}),
		KYCRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kyc_requests_total",
			Help:      "Total number of proxied KYC requests",
		}, []string{"endpoint", "status"}),
		KYCUpstreamErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kyc_upstream_errors_total",
			Help:      "Total number of KYC upstream failures",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox event batches",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}
