package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CoupangRequestsTotal tracks outbound Coupang Partners API calls.
	CoupangRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupang_api_requests_total",
			Help: "Total number of Coupang Partners API requests made (by endpoint, method, and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// CoupangRequestDuration measures the duration of outbound Coupang calls.
	CoupangRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coupang_api_request_duration_seconds",
			Help:    "Duration of Coupang Partners API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	CategoryResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupang_category_results_total",
			Help: "Pipeline category outcomes by kind and status.",
		},
		[]string{"kind", "status"},
	)

	ProductsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupang_products_rejected_total",
			Help: "Upstream products dropped at the boundary for failing validation.",
		},
		[]string{"endpoint", "reason"},
	)

	ShapeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupang_shape_errors_total",
			Help: "Successful responses without a data list envelope.",
		},
		[]string{"endpoint"},
	)

	DeeplinkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupang_deeplink_failures_total",
			Help: "Deeplink conversion batches that fell back to original URLs.",
		},
		[]string{"reason"},
	)

	// DeeplinkSubstitutions counts product URLs replaced or kept per outcome.
	DeeplinkSubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupang_deeplink_substitutions_total",
			Help: "Product URLs after deeplink substitution (mapped or original).",
		},
		[]string{"outcome"},
	)

	ListingCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_listing_cache_total",
			Help: "Listing cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)

	LedgerWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_ledger_write_errors_total",
			Help: "Listing runs that could not be recorded in Postgres.",
		},
	)

	// NATSPublishErrors tracks NATS publish failures by subject.
	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Number of NATS publish failures by subject.",
		},
		[]string{"subject"},
	)
)

// IncCoupangRequest increments the Coupang API request counter.
func IncCoupangRequest(endpoint, method, status string) {
	CoupangRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func IncCategoryResult(kind, status string) {
	CategoryResultsTotal.WithLabelValues(kind, status).Inc()
}

func IncProductRejected(endpoint, reason string) {
	ProductsRejectedTotal.WithLabelValues(endpoint, reason).Inc()
}

func IncShapeError(endpoint string) {
	ShapeErrorsTotal.WithLabelValues(endpoint).Inc()
}

func IncDeeplinkFailure(reason string) {
	DeeplinkFailuresTotal.WithLabelValues(reason).Inc()
}

func AddDeeplinkSubstitutions(outcome string, n int) {
	DeeplinkSubstitutions.WithLabelValues(outcome).Add(float64(n))
}

func IncListingCache(result string) {
	ListingCacheTotal.WithLabelValues(result).Inc()
}

func IncLedgerWriteError() {
	LedgerWriteErrors.Inc()
}

// IncNATSPublishError increments the NATS publish error counter for the given subject.
func IncNATSPublishError(subject string) {
	NATSPublishErrors.WithLabelValues(subject).Inc()
}
