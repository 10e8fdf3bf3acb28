package summarizer

import "time"

const (
	// summarizeTimeout bounds a single news summarization API call.
	summarizeTimeout = 60 * time.Second

	// introTimeout bounds a single welcome intro generation call. Intros
	// are one sentence, so the budget is tighter than for digests.
	introTimeout = 30 * time.Second

	// maxPromptChars caps the news payload embedded in a prompt. Six
	// formatted articles stay well under this; the cap guards against
	// oversized API-provided summaries.
	maxPromptChars = 20000
)

// truncateForPrompt trims oversized input before it is embedded in a prompt.
func truncateForPrompt(input string) string {
	if len(input) <= maxPromptChars {
		return input
	}
	return input[:maxPromptChars] + "...\n(truncated)"
}
