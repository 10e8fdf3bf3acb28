// Package marketdata provides a Finnhub API client for news retrieval and
// symbol search. It includes circuit breaker, retry, and rate limiting for
// improved reliability, plus a TTL cache for cacheable endpoints.
package marketdata

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Config holds configuration parameters for the Finnhub client.
type Config struct {
	// APIKey is the Finnhub API token. Required.
	APIKey string

	// BaseURL is the Finnhub REST endpoint.
	// Default: https://finnhub.io/api/v1
	BaseURL string

	// Timeout is the maximum duration for a single API call.
	// Default: 10s
	Timeout time.Duration

	// SearchCacheTTL is how long symbol search responses are cached.
	// News endpoints are never cached. Default: 30m
	SearchCacheTTL time.Duration

	// RequestsPerSecond limits the outbound request rate. The free
	// Finnhub tier allows 30 requests per second. Default: 30
	RequestsPerSecond rate.Limit
}

// LoadConfig loads Finnhub configuration from environment variables.
// The API key is required and its absence is a hard error so the process
// fails at startup instead of at the first digest run.
//
// Environment variables:
//   - FINNHUB_API_KEY: API token (required)
//   - FINNHUB_BASE_URL: REST endpoint (default: https://finnhub.io/api/v1)
//   - FINNHUB_TIMEOUT: per-request timeout (default: 10s)
//   - FINNHUB_SEARCH_CACHE_TTL: symbol search cache TTL (default: 30m)
func LoadConfig() (Config, error) {
	apiKey := os.Getenv("FINNHUB_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("FINNHUB_API_KEY not set")
	}

	cfg := Config{
		APIKey:            apiKey,
		BaseURL:           "https://finnhub.io/api/v1",
		Timeout:           10 * time.Second,
		SearchCacheTTL:    30 * time.Minute,
		RequestsPerSecond: 30,
	}

	if val := os.Getenv("FINNHUB_BASE_URL"); val != "" {
		cfg.BaseURL = val
	}

	if val := os.Getenv("FINNHUB_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FINNHUB_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("FINNHUB_SEARCH_CACHE_TTL"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FINNHUB_SEARCH_CACHE_TTL: %v", err)
		}
		cfg.SearchCacheTTL = parsed
	}

	return cfg, nil
}
