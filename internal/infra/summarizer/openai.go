package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"signalist/internal/resilience/circuitbreaker"
	"signalist/internal/resilience/retry"
	"signalist/internal/utils/text"
)

// OpenAIConfig tunes the OpenAI adapter.
type OpenAIConfig struct {
	Model     string
	MaxTokens int
}

// LoadOpenAIConfig reads SUMMARIZER_MODEL, defaulting to gpt-4o-mini.
func LoadOpenAIConfig() OpenAIConfig {
	model := "gpt-4o-mini"
	if envModel := os.Getenv("SUMMARIZER_MODEL"); envModel != "" {
		model = envModel
	}
	return OpenAIConfig{Model: model, MaxTokens: 2048}
}

// OpenAI generates digest summaries and welcome intros through the chat
// completion API. It is the fallback when no Anthropic key is set.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          OpenAIConfig
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI builds the adapter with its breaker, retry policy, and
// metrics recorder wired in.
func NewOpenAI(apiKey string) *OpenAI {
	config := LoadOpenAIConfig()

	slog.Info("openai summarizer initialized",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// SummarizeNews renders an HTML digest summary from a JSON news payload.
func (o *OpenAI) SummarizeNews(ctx context.Context, newsJSON string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, summarizeTimeout)
	defer cancel()

	return o.generate(ctx, renderNewsSummaryPrompt(truncateForPrompt(newsJSON)))
}

// GenerateIntro renders a one-sentence welcome greeting from a user
// profile description.
func (o *OpenAI) GenerateIntro(ctx context.Context, profile string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, introTimeout)
	defer cancel()

	return o.generate(ctx, renderWelcomeIntroPrompt(truncateForPrompt(profile)))
}

func (o *OpenAI) generate(ctx context.Context, prompt string) (string, error) {
	return generateGuarded(ctx, "openai", o.circuitBreaker, o.retryConfig, o.metricsRecorder,
		func() (string, error) {
			return o.doGenerate(ctx, prompt)
		})
}

// doGenerate is one bare API call; retry and the breaker sit above it.
func (o *OpenAI) doGenerate(ctx context.Context, prompt string) (string, error) {
	log := slog.With(slog.String("model", o.config.Model))
	log.InfoContext(ctx, "openai generation started",
		slog.Int("input_length", text.CountRunes(prompt)))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	elapsed := time.Since(start)

	if err != nil {
		log.ErrorContext(ctx, "openai generation failed",
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		log.ErrorContext(ctx, "openai response unusable",
			slog.Duration("duration", elapsed))
		return "", fmt.Errorf("openai api returned empty response")
	}

	output := resp.Choices[0].Message.Content
	outputLength := text.CountRunes(output)
	log.InfoContext(ctx, "openai generation completed",
		slog.Int("output_length", outputLength),
		slog.Duration("duration", elapsed))

	o.metricsRecorder.RecordLength(outputLength)
	o.metricsRecorder.RecordDuration(elapsed)
	return output, nil
}
