// Package observability provides Prometheus collectors and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Marketplace event names recorded by MarketplaceEvents.
const (
	EventSignup         = "signup"
	EventLogin          = "login"
	EventPostCreated    = "post_created"
	EventFavoriteAdded  = "favorite_added"
	EventFavoriteRemove = "favorite_removed"
	EventMessageSent    = "message_sent"
	EventRatingCreated  = "rating_created"
	EventPasswordReset  = "password_reset"
)

// Image proxy outcomes recorded by ImageProxyResults.
const (
	ProxyResultOK        = "ok"
	ProxyResultInvalid   = "invalid"
	ProxyResultUpstream  = "upstream_error"
	ProxyResultTooLarge  = "too_large"
	ProxyResultRateLimit = "rate_limited"
)

var (
	// RedisErrorRate counts Redis errors by command name.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rewear_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// MarketplaceEvents counts successful domain writes.
	MarketplaceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_marketplace_events_total",
		Help: "Total marketplace events by type",
	}, []string{"event"})

	// NotificationsPublished counts notification fan-out attempts by result.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_notifications_published_total",
		Help: "Total notification events published to Redis",
	}, []string{"result"})

	// ImageProxyResults counts image proxy requests by outcome.
	ImageProxyResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_image_proxy_requests_total",
		Help: "Total image proxy requests by result",
	}, []string{"result"})

	// ImageProxyBytes tracks the size of relayed images.
	ImageProxyBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rewear_image_proxy_response_bytes",
		Help:    "Size of images relayed by the proxy",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)

// RecordEvent increments the marketplace counter for event.
func RecordEvent(event string) {
	MarketplaceEvents.WithLabelValues(event).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
