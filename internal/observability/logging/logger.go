// Package logging builds the service's slog loggers and moves them
// through contexts. All binaries log JSON to stdout; the text variant
// exists for running the worker locally.
package logging

import (
	"context"
	"log/slog"
	"os"

	"signalist/internal/handler/http/requestid"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// levelFromEnv maps LOG_LEVEL to a slog level. Unset or unrecognized
// values mean info.
func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions() *slog.HandlerOptions {
	level := levelFromEnv()
	return &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the cost when debugging.
		AddSource: level <= slog.LevelWarn,
	}
}

// NewLogger returns a JSON logger writing to stdout, leveled by the
// LOG_LEVEL environment variable (debug, info, warn, error).
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions()))
}

// NewTextLogger is NewLogger with human-readable output, for local runs.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOptions()))
}

// WithRequestID attaches the request ID from ctx to the logger, so the
// per-request log lines can be grepped together. Outside a request
// scope the logger is returned unchanged.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id := requestid.FromContext(ctx)
	if id == "" {
		return logger
	}
	return logger.With("request_id", id)
}

// WithFields attaches the map entries to the logger as attributes.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// WithLogger stores the logger in ctx for retrieval with FromContext.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default when
// none was stored.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
