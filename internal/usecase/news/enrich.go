package news

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"signalist/internal/domain/entity"
	"signalist/internal/observability/metrics"
)

// maxEnrichedSummaryChars caps extracted article text before it replaces
// a missing summary. Longer extracts inflate the AI prompt without adding
// signal.
const maxEnrichedSummaryChars = 1000

// ContentFetcher is the optional port for retrieving readable text from
// an article page. Used to backfill summaries the market data API left
// empty or too short.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// enrichSummaries backfills thin article summaries from the article pages
// themselves. Enrichment is best-effort: a failed fetch leaves the
// article unchanged and never fails the news request.
func (s *Service) enrichSummaries(ctx context.Context, articles []*entity.NewsArticle) {
	if s.Content == nil {
		return
	}

	parallelism := s.EnrichParallelism
	if parallelism < 1 {
		parallelism = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	for _, article := range articles {
		if len(article.Summary) >= s.EnrichThreshold || article.URL == "" {
			metrics.RecordContentFetchSkipped()
			continue
		}

		article := article
		group.Go(func() error {
			content, err := s.Content.FetchContent(groupCtx, article.URL)
			if err != nil {
				slog.WarnContext(groupCtx, "summary enrichment failed",
					slog.String("url", article.URL),
					slog.String("error", err.Error()))
				return nil
			}

			article.Summary = truncateSummary(content)
			return nil
		})
	}

	_ = group.Wait()
}

// truncateSummary trims extracted text to the summary cap, cutting at a
// word boundary when one is close.
func truncateSummary(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxEnrichedSummaryChars {
		return text
	}

	cut := text[:maxEnrichedSummaryChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > maxEnrichedSummaryChars/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
