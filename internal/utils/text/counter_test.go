package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"signalist/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "plain headline", input: "Apple tops estimates", want: 20},
		{name: "ticker with punctuation", input: "NVDA: +3.2%", want: 11},
		{name: "accented company name", input: "Société Générale", want: 16},
		{name: "CJK headline", input: "日経平均が上昇", want: 7},
		{name: "emoji in summary", input: "Markets rally 🚀", want: 15},
		{name: "flag emoji is two regional indicators", input: "🇺🇸", want: 2},
		{name: "whitespace counts", input: " \t\n ", want: 4},
		{name: "zero-width space counts", input: "pre\u200Bmarket", want: 10},
		{name: "euro and trademark symbols", input: "€ ™", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.CountRunes(tt.input))
		})
	}
}

// Multi-byte input must count characters, not bytes. Prompt length logs
// would otherwise overstate CJK and emoji content roughly threefold.
func TestCountRunes_NotBytes(t *testing.T) {
	input := "市場概況 📈"

	assert.Equal(t, 6, text.CountRunes(input))
	assert.Greater(t, len(input), text.CountRunes(input))
}
