// Package circuitbreaker wraps sony/gobreaker for the external services
// the digest pipeline calls. When a provider degrades, the breaker stops
// hammering it; the digest then records a null summary or skips content
// enrichment for the affected users instead of stalling the whole run.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config tunes one breaker instance.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests is how many probe requests the half-open state lets
	// through before deciding to close or re-open.
	MaxRequests uint32

	// Interval resets the closed-state counts, so old failures age out.
	Interval time.Duration

	// Timeout is how long the open state lasts before probing again.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the breaker.
	FailureThreshold float64

	// MinRequests is the sample size required before the ratio counts.
	MinRequests uint32
}

// DefaultConfig trips at 60% failures over at least five requests and
// probes again after a minute.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// ClaudeAPIConfig guards Anthropic summarization calls.
func ClaudeAPIConfig() Config {
	return DefaultConfig("claude-api")
}

// OpenAIAPIConfig guards the OpenAI fallback summarizer.
func OpenAIAPIConfig() Config {
	return DefaultConfig("openai-api")
}

// FinnhubAPIConfig guards market data calls. A digest run issues one
// request per watchlist symbol, so the sample fills fast; the higher
// threshold and longer open period keep one bad burst from blanking
// every user's news.
func FinnhubAPIConfig() Config {
	return Config{
		Name:             "finnhub-api",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          120 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// ContentFetchConfig guards article page fetches. Arbitrary news sites
// fail often and enrichment is optional, so this breaker tolerates the
// most failures and stays open the longest once tripped.
func ContentFetchConfig() Config {
	cfg := DefaultConfig("content-fetch")
	cfg.Interval = 60 * time.Second
	cfg.Timeout = 300 * time.Second
	cfg.FailureThreshold = 0.8
	return cfg
}

// CircuitBreaker is a thin wrapper that keeps the gobreaker dependency
// out of caller signatures.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New builds a breaker from cfg. State transitions are logged, which is
// usually the first sign in the worker logs that a provider is down.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the breaker. While the circuit is open it
// returns gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State reports the current breaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name reports the breaker's configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently being rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
