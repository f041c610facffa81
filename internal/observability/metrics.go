// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "athlos_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "athlos_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PolicyDenials counts access-policy denials by table and operation.
	PolicyDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "athlos_policy_denials_total",
		Help: "Total number of access-policy denials",
	}, []string{"table", "operation"})

	// MentionEntriesSkipped counts tag entries skipped by the mention
	// resolver because they do not match the identity-reference format.
	// Skips are expected for legacy data and logged at info level.
	MentionEntriesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "athlos_mention_entries_skipped_total",
		Help: "Total number of non-conforming tag entries skipped during mention resolution",
	})

	// CounterRepairs counts counter-repair runs and how many rows they touched.
	CounterRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "athlos_counter_repairs_total",
		Help: "Total number of denormalized-counter repair runs by counter",
	}, []string{"counter"})

	// CounterRowsRepaired counts post rows whose stored counter diverged
	// from the recomputed value during a repair run.
	CounterRowsRepaired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "athlos_counter_rows_repaired_total",
		Help: "Total number of post rows with drifted counters overwritten by repair",
	}, []string{"counter"})

	// EngagementWrites counts like/save/comment mutations by kind and direction.
	EngagementWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "athlos_engagement_writes_total",
		Help: "Total number of engagement mutations by kind and direction",
	}, []string{"kind", "direction"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
