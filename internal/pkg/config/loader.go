// Package config provides fail-open environment loading for operational
// knobs. A bad value never stops the process: the loader falls back to
// the compiled-in default and reports the substitution through warnings,
// which the worker turns into log lines and Prometheus counters.
//
// Secrets (API keys, SMTP credentials) do not go through this package;
// those fail fast at startup instead.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult is the outcome of loading one knob. Value holds the
// effective setting, which is the default when FallbackApplied is true.
// Warnings carries one message per substitution for the caller to log.
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func accepted(value interface{}) ConfigLoadResult {
	return ConfigLoadResult{Value: value}
}

func rejected(envKey, raw string, reason error, def interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value:           def,
		Warnings:        []string{fmt.Sprintf("%s=%q rejected: %v; using default %v", envKey, raw, reason, def)},
		FallbackApplied: true,
	}
}

// LoadEnvWithFallback reads a string knob. An unset or empty variable
// yields the default silently; a set value that fails the validator
// yields the default with a warning. A nil validator accepts anything.
//
//	result := LoadEnvWithFallback("CRON_SCHEDULE", "0 12 * * *", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return accepted(defaultValue)
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return rejected(envKey, raw, err, defaultValue)
		}
	}
	return accepted(raw)
}

// LoadEnvDuration reads a Go duration knob ("10m", "1h30m"). Unparseable
// values and validator rejections both fall back to the default.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return accepted(defaultValue)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return rejected(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return rejected(envKey, raw, err, defaultValue)
		}
	}
	return accepted(parsed)
}

// LoadEnvInt reads an integer knob. Unparseable values and validator
// rejections both fall back to the default.
//
//	result := LoadEnvInt("DISPATCH_MAX_CONCURRENT", 5, func(v int) error {
//		return ValidateIntRange(v, 1, 50)
//	})
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return accepted(defaultValue)
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return rejected(envKey, raw, fmt.Errorf("not an integer"), defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return rejected(envKey, raw, err, defaultValue)
		}
	}
	return accepted(parsed)
}
