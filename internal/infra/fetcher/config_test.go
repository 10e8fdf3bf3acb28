package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 80, cfg.Threshold)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.True(t, cfg.DenyPrivateIPs)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContentFetchConfig)
		wantErr string
	}{
		{
			name:    "negative threshold",
			mutate:  func(c *ContentFetchConfig) { c.Threshold = -1 },
			wantErr: "threshold",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *ContentFetchConfig) { c.Timeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "parallelism too high",
			mutate:  func(c *ContentFetchConfig) { c.Parallelism = 51 },
			wantErr: "parallelism",
		},
		{
			name:    "body size too small",
			mutate:  func(c *ContentFetchConfig) { c.MaxBodySize = 512 },
			wantErr: "max body size",
		},
		{
			name:    "too many redirects",
			mutate:  func(c *ContentFetchConfig) { c.MaxRedirects = 11 },
			wantErr: "max redirects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_FETCH_ENABLED", "true")
	t.Setenv("CONTENT_FETCH_THRESHOLD", "200")
	t.Setenv("CONTENT_FETCH_TIMEOUT", "15s")
	t.Setenv("CONTENT_FETCH_PARALLELISM", "8")

	cfg, err := LoadConfigFromEnv()

	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200, cfg.Threshold)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.Parallelism)
}

func TestLoadConfigFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("CONTENT_FETCH_TIMEOUT", "not-a-duration")

	_, err := LoadConfigFromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTENT_FETCH_TIMEOUT")
}
