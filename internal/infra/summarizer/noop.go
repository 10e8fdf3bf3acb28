package summarizer

import (
	"context"
)

// NoOp is a summarizer that echoes its input without calling any AI API.
// This is useful for testing and development when generation is not needed.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// SummarizeNews returns the news payload truncated to a reasonable length.
func (n *NoOp) SummarizeNews(_ context.Context, newsJSON string) (string, error) {
	const maxLength = 500
	if len(newsJSON) <= maxLength {
		return newsJSON, nil
	}
	return newsJSON[:maxLength] + "...", nil
}

// GenerateIntro returns an empty string so callers fall back to their
// default greeting.
func (n *NoOp) GenerateIntro(_ context.Context, _ string) (string, error) {
	return "", nil
}
