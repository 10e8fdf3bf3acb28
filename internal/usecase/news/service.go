// Package news provides the use case for assembling personalized and
// general market news. It implements round-robin selection across a
// user's watchlist symbols with URL-based deduplication.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"signalist/internal/domain/entity"
)

const (
	// maxArticles is the maximum number of articles in one news set.
	maxArticles = 6

	// maxRounds bounds the round-robin selection loop. Each round issues
	// exactly one company-news request.
	maxRounds = 6

	// lookbackDays is the trailing window for company news requests.
	lookbackDays = 5
)

// MarketData is the port to the market data API.
type MarketData interface {
	// CompanyNews retrieves news for one symbol over an inclusive
	// YYYY-MM-DD date range.
	CompanyNews(ctx context.Context, symbol, from, to string) ([]entity.RawNewsArticle, error)

	// GeneralNews retrieves general market news.
	GeneralNews(ctx context.Context) ([]entity.RawNewsArticle, error)
}

// Service provides news retrieval use cases.
type Service struct {
	Market MarketData

	// Content, when set, backfills thin summaries from the article pages.
	Content ContentFetcher

	// EnrichThreshold is the minimum summary length in characters below
	// which enrichment kicks in.
	EnrichThreshold int

	// EnrichParallelism bounds concurrent enrichment fetches.
	EnrichParallelism int

	// now allows tests to pin the clock. Defaults to time.Now.
	now func() time.Time
}

// NewService creates a new news Service with the provided market data port.
func NewService(market MarketData) Service {
	return Service{Market: market, now: time.Now}
}

// GetNews assembles up to six news articles for the given watchlist symbols.
//
// With one or more symbols, articles are selected round-robin: each round
// issues one company-news request for the next symbol in rotation and keeps
// the first valid article, in the provider's order, whose URL has not been
// collected yet. With no symbols (or none surviving normalization), general
// market news is deduplicated and the first six valid articles are kept in
// the provider's order.
//
// The result is sorted by article datetime, newest first. Any market data
// failure is reported as ErrFetchNews.
func (s *Service) GetNews(ctx context.Context, symbols []string) ([]*entity.NewsArticle, error) {
	cleaned := entity.NormalizeSymbols(symbols)

	var (
		articles []*entity.NewsArticle
		err      error
	)
	if len(cleaned) == 0 {
		articles, err = s.generalNews(ctx)
	} else {
		articles, err = s.companyNews(ctx, cleaned)
	}
	if err != nil {
		return nil, err
	}

	s.enrichSummaries(ctx, articles)

	return articles, nil
}

// companyNews runs the round-robin selection across symbols.
func (s *Service) companyNews(ctx context.Context, symbols []string) ([]*entity.NewsArticle, error) {
	from, to := s.dateRange()
	collected := make([]*entity.NewsArticle, 0, maxArticles)
	seen := make(map[string]bool, maxArticles)

	for round := 0; round < maxRounds && len(collected) < maxArticles; round++ {
		symbol := symbols[round%len(symbols)]

		articles, err := s.Market.CompanyNews(ctx, symbol, from, to)
		if err != nil {
			slog.ErrorContext(ctx, "company news fetch failed",
				slog.String("symbol", symbol),
				slog.Int("round", round),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", ErrFetchNews, err)
		}

		// Selection walks the provider's order: the round keeps the
		// first valid, uncollected article, not the newest one.
		for i := range articles {
			raw := &articles[i]
			if !entity.ValidateArticle(raw) {
				continue
			}
			if seen[raw.URL] {
				continue
			}
			seen[raw.URL] = true
			collected = append(collected, entity.FormatArticle(raw, true, symbol, round))
			break
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Datetime > collected[j].Datetime
	})

	slog.InfoContext(ctx, "personalized news assembled",
		slog.Int("symbols", len(symbols)),
		slog.Int("articles", len(collected)))

	return collected, nil
}

// generalNews deduplicates the general feed in the provider's order and
// keeps the first six valid articles, then sorts them newest first.
func (s *Service) generalNews(ctx context.Context) ([]*entity.NewsArticle, error) {
	articles, err := s.Market.GeneralNews(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "general news fetch failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrFetchNews, err)
	}

	collected := make([]*entity.NewsArticle, 0, maxArticles)
	seen := make(map[string]bool, maxArticles)

	for i := range articles {
		if len(collected) >= maxArticles {
			break
		}
		raw := &articles[i]
		if !entity.ValidateArticle(raw) {
			continue
		}
		key := raw.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		collected = append(collected, entity.FormatArticle(raw, false, "", len(collected)))
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Datetime > collected[j].Datetime
	})

	slog.InfoContext(ctx, "general news assembled",
		slog.Int("articles", len(collected)))

	return collected, nil
}

// dateRange returns the trailing lookback window in YYYY-MM-DD format.
func (s *Service) dateRange() (from, to string) {
	end := s.now()
	start := end.AddDate(0, 0, -lookbackDays)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}
