package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Enhancement service call latency (milliseconds).
	EnhanceCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enhance_call_latency_ms",
			Help:    "Enhancement service call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"endpoint", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// Breakdown operations by outcome: ai, fallback, toggle.
	BreakdownCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "action_breakdown_count",
			Help: "Total number of action breakdown operations",
		},
		[]string{"source"},
	)

	// Goal enhancement outcomes: ai, fallback.
	GoalEnhancedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goal_enhanced_count",
			Help: "Total number of goal enhancement operations",
		},
		[]string{"source"},
	)
)

func RecordEnhanceCallLatency(endpoint, status string, duration time.Duration) {
	EnhanceCallLatency.WithLabelValues(endpoint, status).Observe(float64(duration.Milliseconds()))
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementBreakdown(source string) {
	BreakdownCount.WithLabelValues(source).Inc()
}

func IncrementGoalEnhanced(source string) {
	GoalEnhancedCount.WithLabelValues(source).Inc()
}
