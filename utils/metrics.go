package utils

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	MongoPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mongo_pool_connections",
			Help: "MongoDB connections by pool state",
		},
		[]string{"state"}, // open, checked_out
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/register/guest/refresh
	)

	TokenUsage = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_usage_total",
			Help: "Tokens generated, refreshed and revoked",
		},
		[]string{"type", "action"},
	)

	// Progress Metrics
	TaskCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_completions_total",
			Help: "Task completion requests by day and outcome",
		},
		[]string{"day", "outcome"}, // completed, duplicate, locked, not_found, conflict, failed
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total points awarded across all users",
		},
	)

	ProfileWriteRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_write_retries_total",
			Help: "Profile writes retried after a version conflict",
		},
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache lookups by cache and result",
		},
		[]string{"cache", "result"}, // hit, miss
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by category and type",
		},
		[]string{"category", "type"},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

func TrackTaskCompletion(dayID int, outcome string) {
	TaskCompletions.WithLabelValues(strconv.Itoa(dayID), outcome).Inc()
}

func TrackCacheOperation(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheOperations.WithLabelValues(cache, result).Inc()
}

// TrackError increments the error counter
func TrackError(category, errorType string) {
	ErrorsTotal.WithLabelValues(category, errorType).Inc()
}
