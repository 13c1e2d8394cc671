// Package metrics provides Prometheus metrics for the news backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsdesk"

var (
	// UpdatesTotal counts update runs by outcome.
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Total number of news update runs",
		},
		[]string{"status"},
	)

	// UpdateDuration measures a whole update run.
	UpdateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_duration_seconds",
			Help:      "Duration of news update runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// SourceFetchTotal counts source fetches by outcome.
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Total number of RSS source fetches",
		},
		[]string{"category", "status"},
	)

	// CachedNews tracks the size of the served snapshot.
	CachedNews = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_news",
			Help:      "Number of news items in the served snapshot",
		},
		[]string{"list"},
	)

	// Updating is 1 while an update run is queued or running.
	Updating = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "updating",
			Help:      "Whether a news update is in progress (1 = yes, 0 = no)",
		},
	)

	// HTTPRequestsTotal counts API requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures API request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ResponseCacheTotal counts response cache lookups.
	ResponseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "Total number of response cache lookups",
		},
		[]string{"result"},
	)
)

// RecordUpdate records a finished update run.
func RecordUpdate(status string, duration float64) {
	UpdatesTotal.WithLabelValues(status).Inc()
	UpdateDuration.Observe(duration)
}

// RecordSourceFetch records one source fetch.
func RecordSourceFetch(category, status string) {
	SourceFetchTotal.WithLabelValues(category, status).Inc()
}

// SetCachedNews publishes the snapshot sizes.
func SetCachedNews(all, top int) {
	CachedNews.WithLabelValues("all").Set(float64(all))
	CachedNews.WithLabelValues("top").Set(float64(top))
}

// SetUpdating publishes the update flag.
func SetUpdating(updating bool) {
	if updating {
		Updating.Set(1)
		return
	}
	Updating.Set(0)
}

// RecordRequest records an API request.
func RecordRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		ResponseCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	ResponseCacheTotal.WithLabelValues("miss").Inc()
}
