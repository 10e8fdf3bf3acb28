package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder is what a provider adapter reports about its
// generations. Tests inject a stub; production code shares the
// Prometheus recorder below.
type SummaryMetricsRecorder interface {
	RecordLength(length int)
	RecordDuration(duration time.Duration)
	RecordFailure(provider string)
}

// PrometheusSummaryMetrics reports generation outcomes to the default
// Prometheus registry.
type PrometheusSummaryMetrics struct {
	length   prometheus.Histogram
	duration prometheus.Histogram
	failures *prometheus.CounterVec
}

var (
	summaryMetrics     *PrometheusSummaryMetrics
	summaryMetricsOnce sync.Once
)

// NewPrometheusSummaryMetrics returns the process-wide recorder. Both
// providers share it, so the series register exactly once no matter how
// many adapters get constructed.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	summaryMetricsOnce.Do(func() {
		summaryMetrics = &PrometheusSummaryMetrics{
			length: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "news_summary_length_characters",
				Help:    "Distribution of digest summary lengths in characters (Unicode runes)",
				Buckets: []float64{100, 300, 500, 700, 900, 1100, 1500, 2000, 4000},
			}),
			duration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "news_summarization_duration_seconds",
				Help:    "Time taken to generate a digest summary via AI API",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			failures: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "news_summarization_failures_total",
				Help: "Total number of failed AI summarization calls",
			}, []string{"provider"}),
		}
	})
	return summaryMetrics
}

func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.length.Observe(float64(length))
}

func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.duration.Observe(duration.Seconds())
}

func (p *PrometheusSummaryMetrics) RecordFailure(provider string) {
	p.failures.WithLabelValues(provider).Inc()
}
