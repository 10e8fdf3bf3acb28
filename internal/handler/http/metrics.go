package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signalist/internal/handler/http/responsewriter"
	"signalist/internal/observability/metrics"
)

// knownPaths are the routes exported as the path label. Anything else is
// collapsed to "other" to keep metric cardinality bounded.
var knownPaths = map[string]string{
	"/health":                  "/health",
	"/api/stocks/search":       "/api/stocks/search",
	"/api/events/user-created": "/api/events/user-created",
}

// normalizePath maps a request path to its metric label.
func normalizePath(path string) string {
	if normalized, ok := knownPaths[path]; ok {
		return normalized
	}
	return "other"
}

// Metrics returns middleware that records request count, duration, and
// response size for every request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		wrapped := responsewriter.Wrap(w)
		next.ServeHTTP(wrapped, r)

		metrics.RecordHTTPRequest(
			r.Method,
			normalizePath(r.URL.Path),
			strconv.Itoa(wrapped.StatusCode()),
			time.Since(start),
			int(r.ContentLength),
			wrapped.BytesWritten(),
		)
	})
}

// MetricsHandler returns the Prometheus scrape endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
