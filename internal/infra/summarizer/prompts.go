package summarizer

import "strings"

// newsSummaryPrompt instructs the model to turn a JSON news payload into
// a subscriber-facing HTML email section. The {{newsData}} placeholder is
// replaced with the indented JSON news set.
const newsSummaryPrompt = `You are a financial news editor writing a daily market digest email.

Summarize the following market news for a retail investor. Write clean,
friendly HTML suitable for an email body: short paragraphs, one
<h3> heading per story, and a one-sentence takeaway for each. Mention
ticker symbols where available. Do not invent news that is not in the
data. Do not include <html>, <head>, or <body> tags.

News data:
{{newsData}}`

// welcomeIntroPrompt instructs the model to write a short personalized
// greeting for a new user. The {{userProfile}} placeholder is replaced
// with the user's investment profile lines.
const welcomeIntroPrompt = `You are writing the opening paragraph of a welcome email for a stock
market app called Signalist.

Write one warm, concise sentence (maximum 30 words) welcoming a new user
whose investment profile is below. Reference their goals or interests
naturally. Output plain text only, no quotes and no HTML.

User profile:
{{userProfile}}`

// renderNewsSummaryPrompt substitutes the news payload into the digest prompt.
func renderNewsSummaryPrompt(newsJSON string) string {
	return strings.Replace(newsSummaryPrompt, "{{newsData}}", newsJSON, 1)
}

// renderWelcomeIntroPrompt substitutes the profile into the welcome prompt.
func renderWelcomeIntroPrompt(profile string) string {
	return strings.Replace(welcomeIntroPrompt, "{{userProfile}}", profile, 1)
}
