// Package config reads typed values from environment variables. Every
// getter takes a default; a malformed value logs a warning and the
// default wins, so a typo in a deployment manifest degrades settings
// instead of taking the binary down.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// GetEnvString returns the variable's value, or def when unset or
// empty. Strings need no parsing, so nothing is ever logged.
func GetEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt returns the variable parsed as an integer, or def when the
// variable is unset or does not parse.
//
//	limit := GetEnvInt("API_RATE_LIMIT", 60)
func GetEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		warnInvalid(key, raw, strconv.Itoa(def))
		return def
	}
	return v
}

// GetEnvBool returns the variable parsed as a boolean, accepting the
// strconv.ParseBool forms ("1", "t", "true", "0", "f", "false" in any
// case). Unset or unparseable values yield def.
//
//	migrate := GetEnvBool("DB_MIGRATE", false)
func GetEnvBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		warnInvalid(key, raw, strconv.FormatBool(def))
		return def
	}
	return v
}

// GetEnvDuration returns the variable parsed with time.ParseDuration
// ("30s", "1h30m"). Unset or unparseable values yield def.
//
//	lifetime := GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour)
func GetEnvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		warnInvalid(key, raw, def.String())
		return def
	}
	return v
}

func warnInvalid(key, raw, def string) {
	slog.Warn("environment variable does not parse, using default",
		slog.String("key", key),
		slog.String("value", raw),
		slog.String("default", def))
}
