package news

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"signalist/internal/domain/entity"
)

type fakeFetcher struct {
	mu      sync.Mutex
	content map[string]string
	err     error
	calls   []string
}

func (f *fakeFetcher) FetchContent(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.content[url], nil
}

func TestEnrichSummaries_BackfillsThinSummaries(t *testing.T) {
	fetcher := &fakeFetcher{content: map[string]string{
		"https://news.example.com/a": "Full article text extracted from the page.",
	}}

	svc := Service{
		Content:           fetcher,
		EnrichThreshold:   80,
		EnrichParallelism: 2,
	}

	longSummary := strings.Repeat("x", 120)
	articles := []*entity.NewsArticle{
		{URL: "https://news.example.com/a", Summary: "short"},
		{URL: "https://news.example.com/b", Summary: longSummary},
		{Summary: ""},
	}

	svc.enrichSummaries(context.Background(), articles)

	assert.Equal(t, "Full article text extracted from the page.", articles[0].Summary)
	assert.Equal(t, longSummary, articles[1].Summary, "sufficient summary is untouched")
	assert.Equal(t, "", articles[2].Summary, "article without URL is skipped")
	assert.Equal(t, []string{"https://news.example.com/a"}, fetcher.calls)
}

func TestEnrichSummaries_FetchFailureLeavesArticleUnchanged(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("circuit open")}

	svc := Service{
		Content:           fetcher,
		EnrichThreshold:   80,
		EnrichParallelism: 1,
	}

	articles := []*entity.NewsArticle{
		{URL: "https://news.example.com/a", Summary: "short"},
	}

	svc.enrichSummaries(context.Background(), articles)

	assert.Equal(t, "short", articles[0].Summary)
}

func TestEnrichSummaries_NoFetcherIsNoOp(t *testing.T) {
	svc := Service{}
	articles := []*entity.NewsArticle{
		{URL: "https://news.example.com/a", Summary: ""},
	}

	svc.enrichSummaries(context.Background(), articles)

	assert.Equal(t, "", articles[0].Summary)
}

func TestTruncateSummary(t *testing.T) {
	short := "brief extract"
	assert.Equal(t, short, truncateSummary(short))

	words := strings.Repeat("word ", 400)
	got := truncateSummary(words)

	assert.LessOrEqual(t, len(got), maxEnrichedSummaryChars+3)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), " "))
}
