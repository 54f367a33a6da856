package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GiftEvents counts gift lifecycle transitions by event (created, opened, reopened).
	GiftEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronogift_gift_events_total",
		Help: "Total gift lifecycle events by type",
	}, []string{"event"})

	// OpenRejections counts refused open attempts by error code.
	OpenRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronogift_gift_open_rejections_total",
		Help: "Total rejected gift open attempts by reason",
	}, []string{"code"})

	// AuditWriteFailures counts best-effort audit appends that failed.
	AuditWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronogift_audit_write_failures_total",
		Help: "Total audit log writes that failed",
	}, []string{"event"})

	// IdentityLookupLatency records identity provider round trips by outcome.
	IdentityLookupLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chronogift_identity_lookup_seconds",
		Help:    "Identity provider lookup latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronogift_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// TrackIdentityLookup returns a function that records the lookup latency
// under the outcome passed to it (e.g. defer done("ok")).
func TrackIdentityLookup() func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		IdentityLookupLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}
