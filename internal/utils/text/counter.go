// Package text provides small text processing helpers shared by the AI
// summarization providers.
package text

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Counting runes instead of bytes keeps input/output length logging
// and metrics consistent for multi-byte content such as emoji or CJK text.
func CountRunes(text string) int {
	return len([]rune(text))
}
