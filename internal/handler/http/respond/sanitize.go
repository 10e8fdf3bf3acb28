package respond

import (
	"regexp"
)

var (
	// API key patterns. The Anthropic pattern must be applied first
	// because it is the more specific of the two.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// Finnhub passes the API key as a query parameter.
	finnhubTokenPattern = regexp.MustCompile(`token=[a-zA-Z0-9]+`)

	// Database password inside a DSN.
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError returns the error message with API keys, tokens, and
// database passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = finnhubTokenPattern.ReplaceAllString(msg, "token=****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
