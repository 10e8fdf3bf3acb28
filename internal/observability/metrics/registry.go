// Package metrics registers the service's Prometheus metrics and the
// helpers for recording them. Everything registers with the default
// registry at init, so importing a package that records a metric is
// enough for it to appear on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Digest pipeline metrics. These answer the operational questions for
// the daily run: how much news came in, how many summaries and emails
// went out, and where the time went.
var (
	// NewsArticlesFetchedTotal counts articles fetched per mode:
	// "company" for symbol-scoped requests, "general" for market news.
	NewsArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_articles_fetched_total",
			Help: "Total number of news articles fetched from the market data API",
		},
		[]string{"mode"},
	)

	// NewsFetchErrors counts market data API failures.
	NewsFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_fetch_errors_total",
			Help: "Total number of news fetch errors",
		},
		[]string{"mode", "error_type"},
	)

	// SummariesGeneratedTotal counts AI summaries by outcome.
	SummariesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_generated_total",
			Help: "Total number of AI news summaries generated",
		},
		[]string{"status"},
	)

	// SummarizationDuration is per-summary latency. Provider calls run
	// seconds to tens of seconds, hence the 0.5s..256s buckets.
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to generate an AI news summary",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// EmailsSentTotal counts dispatches by kind ("news_digest",
	// "welcome") and status.
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of emails dispatched",
		},
		[]string{"kind", "status"},
	)

	// EmailDispatchDuration is per-email SMTP delivery latency.
	EmailDispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "email_dispatch_duration_seconds",
			Help:    "Time taken to deliver an email via SMTP",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// DigestRunsTotal counts full daily runs by status.
	DigestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_runs_total",
			Help: "Total number of daily digest runs",
		},
		[]string{"status"},
	)

	// DigestRunDuration covers the whole run, fetch through dispatch.
	DigestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_run_duration_seconds",
			Help:    "Time taken for a full daily digest run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// ContentFetchAttemptsTotal counts article page fetches by result:
	// success, failure, or skipped.
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of article content fetch attempts",
		},
		[]string{"result"},
	)

	// ContentFetchDuration is per-page fetch latency.
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ContentFetchSize is the extracted article size. Buckets run from
	// a stub paragraph up to the 10MB body cap.
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "content_fetch_size_bytes",
			Help: "Fetched article content size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 6553600, 10485760,
			},
		},
	)
)

// API surface metrics, recorded by the handler middleware.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Count of handled HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of handled HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "Request body sizes in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Response body sizes in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Requests currently in flight",
		},
	)
)

// Database pool metrics, fed by the repositories and the worker's pool
// stats reporter.
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Latency of database queries by operation",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Pool connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Pool connections sitting idle",
		},
	)
)

// RecordHTTPRequest records one completed request across the HTTP
// metric family. Zero sizes are skipped, a GET has no body to measure.
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
