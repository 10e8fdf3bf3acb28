package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"signalist/internal/pkg/config"
)

// DigestMetrics provides Prometheus metrics for the digest worker. It
// embeds the shared ConfigMetrics for configuration monitoring and adds
// job-level metrics for the scheduled digest run.
//
// Worker metrics:
//   - worker_digest_runs_total: total digest runs by status (success/failure)
//   - worker_digest_duration_seconds: duration histogram of digest runs
//   - worker_digest_emails_sent_total: total emails dispatched across runs
//   - worker_digest_last_success_timestamp: Unix timestamp of the last successful run
type DigestMetrics struct {
	*config.ConfigMetrics

	// DigestRunsTotal counts digest runs by status (success, failure).
	DigestRunsTotal *prometheus.CounterVec

	// DigestDurationSeconds measures the duration of full digest runs.
	DigestDurationSeconds prometheus.Histogram

	// DigestEmailsSentTotal counts emails dispatched across all runs.
	DigestEmailsSentTotal prometheus.Counter

	// DigestLastSuccessTimestamp records when the last run succeeded.
	DigestLastSuccessTimestamp prometheus.Gauge
}

// NewDigestMetrics creates the worker metric set. Metrics register with
// the default Prometheus registry on creation, so this must be called at
// most once per process.
func NewDigestMetrics() *DigestMetrics {
	return &DigestMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		DigestRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_runs_total",
			Help: "Total number of digest runs by status (success/failure)",
		}, []string{"status"}),

		DigestDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_digest_duration_seconds",
			Help:    "Duration of digest run execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		DigestEmailsSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_digest_emails_sent_total",
			Help: "Total number of digest emails dispatched across all runs",
		}),

		DigestLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_digest_last_success_timestamp",
			Help: "Unix timestamp of the last successful digest run",
		}),
	}
}

// RecordJobRun increments the run counter for the given status
// ("success" or "failure").
func (m *DigestMetrics) RecordJobRun(status string) {
	m.DigestRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes the duration of a digest run in seconds.
func (m *DigestMetrics) RecordJobDuration(seconds float64) {
	m.DigestDurationSeconds.Observe(seconds)
}

// RecordEmailsSent adds the number of emails dispatched in one run.
func (m *DigestMetrics) RecordEmailsSent(count int) {
	m.DigestEmailsSentTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *DigestMetrics) RecordLastSuccess() {
	m.DigestLastSuccessTimestamp.SetToCurrentTime()
}
