package mailer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultTextFallback is used when an HTML summary yields no readable text.
const defaultTextFallback = "Today's market news summary."

// welcomeTextBody is the fixed plain-text alternative for the welcome
// email.
const welcomeTextBody = "Thanks for joining Signalist"

// StripHTML converts an HTML fragment to plain text by extracting the
// document text and collapsing whitespace. Returns the input unchanged
// when it cannot be parsed as HTML.
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// plainTextFallback derives the plain-text alternative body from the
// summary fragment alone, not the rendered template, so the static
// headings and footer never pad the text part. Falls back to a generic
// line when stripping the summary leaves nothing.
func plainTextFallback(summary string) string {
	text := StripHTML(summary)
	if text == "" {
		return defaultTextFallback
	}
	return text
}
