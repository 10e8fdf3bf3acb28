// Package fetcher retrieves full article pages and extracts readable text
// for news items whose API-provided summary is empty or too short. It is
// an optional enrichment step and the digest pipeline works without it.
package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ContentFetchConfig controls the article content enrichment behavior.
// Fields map one-to-one onto CONTENT_FETCH_* environment variables.
type ContentFetchConfig struct {
	// Enabled turns enrichment on. When false the API summary is used
	// as-is. Defaults off.
	Enabled bool

	// Threshold is the minimum API summary length in characters before a
	// fetch is attempted. Summaries at or above it are kept as-is.
	Threshold int

	// Timeout bounds a single page fetch.
	Timeout time.Duration

	// Parallelism is the number of concurrent page fetches.
	Parallelism int

	// MaxBodySize rejects larger HTTP response bodies, in bytes.
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain. Each redirect target is
	// revalidated against the SSRF rules.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private, loopback, or
	// link-local addresses. Keep enabled in production.
	DenyPrivateIPs bool
}

// DefaultConfig returns production defaults with enrichment disabled.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        false,
		Threshold:      80,
		Timeout:        10 * time.Second,
		Parallelism:    4,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate rejects settings that could exhaust resources or disable the
// safety limits.
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}
	if min, max := int64(1024), int64(100*1024*1024); c.MaxBodySize < min || c.MaxBodySize > max {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", min, max, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv builds the enrichment config from CONTENT_FETCH_*
// environment variables over the defaults, then validates the result.
// Unlike the worker config this is strict: enrichment is an operator
// opt-in, so a malformed value here is an error, not a fallback.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	readBool("CONTENT_FETCH_ENABLED", &cfg.Enabled)
	readBool("CONTENT_FETCH_DENY_PRIVATE_IPS", &cfg.DenyPrivateIPs)

	if err := readInt("CONTENT_FETCH_THRESHOLD", &cfg.Threshold); err != nil {
		return cfg, err
	}
	if err := readInt("CONTENT_FETCH_PARALLELISM", &cfg.Parallelism); err != nil {
		return cfg, err
	}
	if err := readInt("CONTENT_FETCH_MAX_REDIRECTS", &cfg.MaxRedirects); err != nil {
		return cfg, err
	}
	if err := readInt64("CONTENT_FETCH_MAX_BODY_SIZE", &cfg.MaxBodySize); err != nil {
		return cfg, err
	}
	if err := readDuration("CONTENT_FETCH_TIMEOUT", &cfg.Timeout); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// readBool treats exactly "true" as true, anything else set as false.
func readBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		*dst = val == "true"
	}
}

func readInt(key string, dst *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = parsed
	return nil
}

func readInt64(key string, dst *int64) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = parsed
	return nil
}

func readDuration(key string, dst *time.Duration) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %v (expected format: '10s', '1m')", key, err)
	}
	*dst = parsed
	return nil
}
