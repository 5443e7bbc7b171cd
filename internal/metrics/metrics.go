package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ReasonCooldown = "cooldown"
	ReasonClaim    = "claim"
)

var (
	viewsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_views_recorded_total",
			Help: "Total number of views counted",
		},
		[]string{"subject_type"},
	)

	viewsSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_views_suppressed_total",
			Help: "Total number of views not counted because the visitor is inside the cooldown window",
		},
		[]string{"subject_type", "reason"},
	)

	viewStoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_view_store_errors_total",
			Help: "Total number of view store failures swallowed by the view service",
		},
		[]string{"operation"},
	)
)

func RecordViewCounted(subjectType string) {
	viewsRecordedTotal.WithLabelValues(subjectType).Inc()
}

func RecordViewSuppressed(subjectType, reason string) {
	viewsSuppressedTotal.WithLabelValues(subjectType, reason).Inc()
}

func RecordStoreError(operation string) {
	viewStoreErrorsTotal.WithLabelValues(operation).Inc()
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
