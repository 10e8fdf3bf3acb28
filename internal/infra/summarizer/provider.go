package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sony/gobreaker"

	"signalist/internal/resilience/circuitbreaker"
	"signalist/internal/resilience/retry"
)

// generateGuarded runs one provider call inside the retry loop, with
// the provider's circuit breaker around each attempt. An open breaker
// still burns the retry budget, so a dead provider fails fast instead
// of holding a digest worker for the full backoff schedule.
func generateGuarded(ctx context.Context, provider string, breaker *circuitbreaker.CircuitBreaker, cfg retry.Config, rec SummaryMetricsRecorder, call func() (string, error)) (string, error) {
	var out string

	err := retry.WithBackoff(ctx, cfg, func() error {
		res, err := breaker.Execute(func() (interface{}, error) {
			return call()
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("provider circuit breaker open, request rejected",
					slog.String("provider", provider),
					slog.String("state", breaker.State().String()))
				return fmt.Errorf("%s unavailable: circuit breaker open", provider)
			}
			return err
		}
		out = res.(string)
		return nil
	})
	if err != nil {
		rec.RecordFailure(provider)
		return "", fmt.Errorf("%s generation failed after retries: %w", provider, err)
	}
	return out, nil
}
