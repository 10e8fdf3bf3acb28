// Package worker provides the scheduling infrastructure for the daily
// digest job: configuration with fail-open fallbacks, Prometheus metrics,
// and a health check server for orchestration probes.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"signalist/internal/pkg/config"
)

// WorkerConfig holds the digest worker's runtime settings. Loading is
// fail-open: an invalid environment value falls back to the default with
// a warning and a metric, never a startup failure.
type WorkerConfig struct {
	// CronSchedule is when the daily digest job fires, in five-field
	// cron syntax. Default "0 12 * * *", daily at noon.
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string

	// DispatchMaxConcurrent bounds concurrent email dispatches during a
	// run. Allowed range 1-50.
	DispatchMaxConcurrent int

	// DigestTimeout cancels a run that exceeds it.
	DigestTimeout time.Duration

	// HealthPort is where the probe server listens. Allowed range
	// 1024-65535.
	HealthPort int
}

// DefaultConfig returns production-ready defaults: a daily noon UTC run,
// five concurrent dispatches, and a ten minute run timeout.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:          "0 12 * * *",
		Timezone:              "UTC",
		DispatchMaxConcurrent: 5,
		DigestTimeout:         10 * time.Minute,
		HealthPort:            9091,
	}
}

// Validate checks every field using the shared validators and returns all
// failures aggregated.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.DispatchMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("dispatch max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.DigestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("digest timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads the worker settings from the environment:
//
//   - CRON_SCHEDULE: cron expression (default "0 12 * * *")
//   - WORKER_TIMEZONE: IANA zone (default "UTC")
//   - DISPATCH_MAX_CONCURRENT: 1-50 (default 5)
//   - DIGEST_TIMEOUT: duration 1m-2h (default 10m)
//   - WORKER_HEALTH_PORT: 1024-65535 (default 9091)
//
// It never returns an error; each invalid value is replaced by its
// default and surfaced through the log and the config metrics.
func LoadConfigFromEnv(logger *slog.Logger, metrics *DigestMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	anyFallback := false

	accept := func(field string, result config.ConfigLoadResult) interface{} {
		if result.FallbackApplied {
			anyFallback = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
		return result.Value
	}

	cfg.CronSchedule = accept("cron_schedule",
		config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)).(string)

	cfg.Timezone = accept("timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)).(string)

	cfg.DispatchMaxConcurrent = accept("dispatch_max_concurrent",
		config.LoadEnvInt("DISPATCH_MAX_CONCURRENT", cfg.DispatchMaxConcurrent, func(v int) error {
			return config.ValidateIntRange(v, 1, 50)
		})).(int)

	cfg.DigestTimeout = accept("digest_timeout",
		config.LoadEnvDuration("DIGEST_TIMEOUT", cfg.DigestTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, 1*time.Minute, 2*time.Hour)
		})).(time.Duration)

	cfg.HealthPort = accept("health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		})).(int)

	metrics.SetFallbackActive("", anyFallback)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
