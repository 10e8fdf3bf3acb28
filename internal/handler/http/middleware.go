// Package http provides the HTTP handlers and middleware for the API
// binary: the user-created event endpoint, stock symbol search, health
// checks, and the logging/metrics/rate-limiting middleware around them.
package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"signalist/internal/handler/http/requestid"
	"signalist/internal/handler/http/respond"
	"signalist/internal/handler/http/responsewriter"
)

// Logging returns middleware that emits one structured line per
// completed request, carrying the request ID and the active trace ID so
// a log line can be joined to its trace.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorded := responsewriter.Wrap(w)
			start := time.Now()

			next.ServeHTTP(recorded, r)

			logger.Info("request completed",
				slog.String("request_id", requestid.FromContext(r.Context())),
				slog.String("trace_id", trace.SpanFromContext(r.Context()).SpanContext().TraceID().String()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", recorded.StatusCode()),
				slog.Int("bytes", recorded.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recover returns middleware that turns a handler panic into a 500
// response and an error log with the stack, instead of killing the
// process mid-request.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				respond.SafeError(w, http.StatusInternalServerError, fmt.Errorf("internal error"))

				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody returns middleware that caps request body size.
// Oversized sign-up payloads fail inside the JSON decoder with a
// MaxBytesError rather than being buffered.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// visitLog holds the recent request times for one client IP.
type visitLog struct {
	mu    sync.Mutex
	times []time.Time
}

// prune drops entries older than cutoff, keeping order.
func (v *visitLog) prune(cutoff time.Time) {
	kept := v.times[:0]
	for _, ts := range v.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	v.times = kept
}

// RateLimiter enforces a per-IP sliding window limit.
type RateLimiter struct {
	visits    sync.Map // client IP -> *visitLog
	limit     int
	window    time.Duration
	cleanMu   sync.Mutex
	lastClean time.Time
}

// NewRateLimiter allows limit requests per client IP per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, lastClean: time.Now()}
}

// Limit applies the rate limit, responding 429 when exceeded.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl.maybeCleanup()

		if !rl.allow(extractIP(r)) {
			respond.SafeError(w, http.StatusTooManyRequests, fmt.Errorf("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ip string) bool {
	val, _ := rl.visits.LoadOrStore(ip, &visitLog{})
	log := val.(*visitLog)

	log.mu.Lock()
	defer log.mu.Unlock()

	now := time.Now()
	log.prune(now.Add(-rl.window))
	if len(log.times) >= rl.limit {
		return false
	}
	log.times = append(log.times, now)
	return true
}

// maybeCleanup sweeps idle IPs every ten minutes so the visit map does
// not grow with every client ever seen.
func (rl *RateLimiter) maybeCleanup() {
	rl.cleanMu.Lock()
	defer rl.cleanMu.Unlock()

	if time.Since(rl.lastClean) < 10*time.Minute {
		return
	}
	rl.lastClean = time.Now()

	cutoff := time.Now().Add(-2 * rl.window)
	rl.visits.Range(func(key, value interface{}) bool {
		log := value.(*visitLog)
		log.mu.Lock()
		idle := len(log.times) == 0 || log.times[len(log.times)-1].Before(cutoff)
		log.mu.Unlock()
		if idle {
			rl.visits.Delete(key)
		}
		return true
	})
}

// extractIP returns the client IP without the port. RemoteAddr values
// without a port (as httptest produces) pass through unchanged.
func extractIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
