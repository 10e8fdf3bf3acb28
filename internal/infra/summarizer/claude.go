// Package summarizer turns news payloads and profile descriptions into
// prose through an AI provider. Claude is the primary adapter, OpenAI
// the fallback, and NoOp serves environments without API keys.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"signalist/internal/resilience/circuitbreaker"
	"signalist/internal/resilience/retry"
	"signalist/internal/utils/text"
)

// ClaudeConfig tunes the Claude adapter.
type ClaudeConfig struct {
	Model     string
	MaxTokens int
}

// LoadClaudeConfig reads SUMMARIZER_MODEL, defaulting to the pinned
// Sonnet snapshot the digest prompt was tuned against.
func LoadClaudeConfig() ClaudeConfig {
	model := string(anthropic.Model("claude-sonnet-4-5-20250929"))
	if envModel := os.Getenv("SUMMARIZER_MODEL"); envModel != "" {
		model = envModel
	}
	return ClaudeConfig{Model: model, MaxTokens: 2048}
}

// Claude generates digest summaries and welcome intros through
// Anthropic's Messages API.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          ClaudeConfig
	metricsRecorder SummaryMetricsRecorder
}

// NewClaude builds the adapter with its breaker, retry policy, and
// metrics recorder wired in.
func NewClaude(apiKey string) *Claude {
	config := LoadClaudeConfig()

	slog.Info("claude summarizer initialized",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// SummarizeNews renders an HTML digest summary from a JSON news payload.
func (c *Claude) SummarizeNews(ctx context.Context, newsJSON string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, summarizeTimeout)
	defer cancel()

	return c.generate(ctx, renderNewsSummaryPrompt(truncateForPrompt(newsJSON)))
}

// GenerateIntro renders a one-sentence welcome greeting from a user
// profile description.
func (c *Claude) GenerateIntro(ctx context.Context, profile string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, introTimeout)
	defer cancel()

	return c.generate(ctx, renderWelcomeIntroPrompt(truncateForPrompt(profile)))
}

func (c *Claude) generate(ctx context.Context, prompt string) (string, error) {
	return generateGuarded(ctx, "claude", c.circuitBreaker, c.retryConfig, c.metricsRecorder,
		func() (string, error) {
			return c.doGenerate(ctx, prompt)
		})
}

// doGenerate is one bare API call; retry and the breaker sit above it.
func (c *Claude) doGenerate(ctx context.Context, prompt string) (string, error) {
	log := slog.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("model", c.config.Model))
	log.InfoContext(ctx, "claude generation started",
		slog.Int("input_length", text.CountRunes(prompt)))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	elapsed := time.Since(start)

	if err != nil {
		log.ErrorContext(ctx, "claude generation failed",
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	output, err := firstTextBlock(message)
	if err != nil {
		log.ErrorContext(ctx, "claude response unusable",
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		return "", err
	}

	outputLength := text.CountRunes(output)
	log.InfoContext(ctx, "claude generation completed",
		slog.Int("output_length", outputLength),
		slog.Duration("duration", elapsed))

	c.metricsRecorder.RecordLength(outputLength)
	c.metricsRecorder.RecordDuration(elapsed)
	return output, nil
}

// firstTextBlock extracts the generated text from a Messages response.
func firstTextBlock(message *anthropic.Message) (string, error) {
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	block, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}
	return block.Text, nil
}
