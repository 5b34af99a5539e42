package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToggleOutcomes counts completed membership toggles by relation and outcome.
	ToggleOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_toggle_outcomes_total",
		Help: "Completed membership toggles by relation kind and outcome",
	}, []string{"relation", "outcome"})

	// ToggleConflicts counts toggles rejected with a storage write conflict.
	ToggleConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_toggle_conflicts_total",
		Help: "Membership toggles rejected by a storage-level write conflict",
	}, []string{"relation"})

	// IdempotentReplays counts requests answered from a recorded idempotency key.
	IdempotentReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_idempotent_replays_total",
		Help: "Engagement requests answered from a recorded idempotency key",
	})

	// ReconcilerCorrections counts counter-projection rows repaired by the reconciler.
	ReconcilerCorrections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_reconciler_corrections_total",
		Help: "Counter projection rows corrected during reconciliation",
	}, []string{"projection"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
