package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Component names are unique per test: metrics register with the
// default registry and a duplicate name panics.

func TestNewConfigMetrics(t *testing.T) {
	m := NewConfigMetrics("testcfg_new")

	assert.NotNil(t, m.LoadTimestamp)
	assert.NotNil(t, m.ValidationErrorsTotal)
	assert.NotNil(t, m.FallbacksTotal)
	assert.NotNil(t, m.FallbackActive)
	assert.Equal(t, "testcfg_new", m.componentName)
}

func TestConfigMetrics_RecordLoadTimestamp(t *testing.T) {
	m := NewConfigMetrics("testcfg_loadts")

	m.RecordLoadTimestamp()

	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)
}

func TestConfigMetrics_RecordValidationError_PerField(t *testing.T) {
	m := NewConfigMetrics("testcfg_valerr")

	m.RecordValidationError("cron_schedule")
	m.RecordValidationError("cron_schedule")
	m.RecordValidationError("digest_timeout")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("digest_timeout")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("timezone")))
}

func TestConfigMetrics_RecordFallback(t *testing.T) {
	m := NewConfigMetrics("testcfg_fallback")

	m.RecordFallback("dispatch_max_concurrent", "default")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("dispatch_max_concurrent")))
}

func TestConfigMetrics_SetFallbackActive(t *testing.T) {
	m := NewConfigMetrics("testcfg_active")

	m.SetFallbackActive("", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))

	m.SetFallbackActive("", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive))
}
