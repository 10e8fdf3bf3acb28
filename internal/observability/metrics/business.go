package metrics

import "time"

// outcome maps a bool to the status label shared by the counters.
func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordNewsFetched counts articles returned by the market data API.
// Mode is "company" or "general".
func RecordNewsFetched(mode string, count int) {
	NewsArticlesFetchedTotal.WithLabelValues(mode).Add(float64(count))
}

// RecordNewsFetchError counts one failed news fetch.
func RecordNewsFetchError(mode, errorType string) {
	NewsFetchErrors.WithLabelValues(mode, errorType).Inc()
}

// RecordSummaryGenerated counts one AI summarization outcome.
func RecordSummaryGenerated(success bool) {
	SummariesGeneratedTotal.WithLabelValues(outcome(success)).Inc()
}

// RecordSummarizationDuration observes the latency of one summary.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordEmailSent counts one dispatch and observes its delivery time.
// Kind is "news_digest" or "welcome".
func RecordEmailSent(kind string, success bool, duration time.Duration) {
	EmailsSentTotal.WithLabelValues(kind, outcome(success)).Inc()
	EmailDispatchDuration.Observe(duration.Seconds())
}

// RecordDigestRun counts one full daily run and observes its duration.
func RecordDigestRun(success bool, duration time.Duration) {
	DigestRunsTotal.WithLabelValues(outcome(success)).Inc()
	DigestRunDuration.Observe(duration.Seconds())
}

// RecordContentFetchSuccess observes one fetched article page.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed observes one failed article page fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped counts an article whose API summary was
// already long enough to skip the page fetch.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordDBQuery observes one query under an operation label such as
// "list_users" or "list_watchlist".
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats publishes the sql.DB pool gauges.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
