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
		Name: "postboard_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PageCacheLookups counts rendered-page cache lookups by view and result (hit, miss, error).
	PageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_page_cache_lookups_total",
		Help: "Rendered page cache lookups by view and result",
	}, []string{"view", "result"})

	// PageCacheClears counts explicit cache invalidations.
	PageCacheClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postboard_page_cache_clears_total",
		Help: "Total number of explicit page cache clears",
	})

	// ContentCreated counts successful writes by kind (post, comment, follow, group).
	ContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_content_created_total",
		Help: "Total number of created posts, comments, follows and groups",
	}, []string{"kind"})

	// ImageUploads counts image uploads by result.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_image_uploads_total",
		Help: "Image uploads by result",
	}, []string{"result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
