// Package digest provides the daily news summary pipeline. It walks the
// user roster, assembles per-user news, summarizes it with AI, and
// dispatches the summary emails in parallel.
package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"signalist/internal/domain/entity"
	"signalist/internal/observability/metrics"
	"signalist/internal/repository"
)

// emptySummaryFallback replaces an empty AI response so subscribers never
// receive a blank digest body.
const emptySummaryFallback = "No market news."

// digestDateFormat is the human-readable date used in subjects and bodies.
const digestDateFormat = "Monday, January 2, 2006"

// WatchlistResolver resolves a user's watchlist symbols by email.
// Implementations must not fail: lookup problems yield an empty slice.
type WatchlistResolver interface {
	SymbolsByEmail(ctx context.Context, email string) []string
}

// NewsProvider assembles a news set for the given symbols. An empty or
// nil symbol list requests general market news.
type NewsProvider interface {
	GetNews(ctx context.Context, symbols []string) ([]*entity.NewsArticle, error)
}

// Summarizer turns a JSON-encoded news set into a subscriber-facing
// HTML summary.
type Summarizer interface {
	SummarizeNews(ctx context.Context, newsJSON string) (string, error)
}

// SummaryMailer delivers one digest email.
type SummaryMailer interface {
	SendNewsSummaryEmail(ctx context.Context, email, date, summary string) error
}

// Config holds tuning knobs for the digest pipeline.
type Config struct {
	// DispatchMaxConcurrent bounds parallel email dispatch.
	DispatchMaxConcurrent int
}

// Service provides the daily digest use case.
type Service struct {
	UserRepo   repository.UserRepository
	Watchlist  WatchlistResolver
	News       NewsProvider
	Summarizer Summarizer
	Mailer     SummaryMailer
	Config     Config

	// now allows tests to pin the clock. Defaults to time.Now.
	now func() time.Time
}

// NewService creates a new digest Service with the provided dependencies.
func NewService(
	userRepo repository.UserRepository,
	watchlist WatchlistResolver,
	news NewsProvider,
	summarizer Summarizer,
	mailer SummaryMailer,
	cfg Config,
) Service {
	if cfg.DispatchMaxConcurrent < 1 {
		cfg.DispatchMaxConcurrent = 5
	}
	return Service{
		UserRepo:   userRepo,
		Watchlist:  watchlist,
		News:       news,
		Summarizer: summarizer,
		Mailer:     mailer,
		Config:     cfg,
		now:        time.Now,
	}
}

// Stats contains counters for one digest run.
type Stats struct {
	Users         int
	Summaries     int
	NullSummaries int
	Skipped       int
	Sent          int64
	Duration      time.Duration
}

// RunResult describes the outcome of one digest run.
type RunResult struct {
	Success bool
	Message string
	Stats   Stats
}

// summaryRecord pairs a user with their generated summary. A nil summary
// marks a user whose pipeline failed; they are excluded from dispatch.
type summaryRecord struct {
	user    *entity.User
	summary *string
}

// RunDaily executes the full digest pipeline once.
//
// A roster read failure aborts the run. An empty roster is a no-op result,
// not an error. Per-user failures downstream of the roster (news fetch,
// summarization) null out that user's summary without affecting others.
// Dispatch failures fail the run, but emails already delivered stay
// delivered.
func (s *Service) RunDaily(ctx context.Context) (*RunResult, error) {
	start := s.now()
	stats := Stats{}

	users, err := s.UserRepo.ListForNewsEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for news email: %w", err)
	}

	if len(users) == 0 {
		slog.InfoContext(ctx, "no users eligible for news email")
		return &RunResult{Success: false, Message: "No users found for news email", Stats: stats}, nil
	}
	stats.Users = len(users)

	records := make([]summaryRecord, 0, len(users))
	for _, user := range users {
		record, skipped := s.buildUserSummary(ctx, user)
		if skipped {
			stats.Skipped++
			continue
		}
		if record.summary == nil {
			stats.NullSummaries++
		} else {
			stats.Summaries++
		}
		records = append(records, record)
	}

	date := start.Format(digestDateFormat)
	if err := s.dispatch(ctx, records, date, &stats); err != nil {
		stats.Duration = s.now().Sub(start)
		return &RunResult{Success: false, Message: "Failed to send news summary emails", Stats: stats}, err
	}

	stats.Duration = s.now().Sub(start)
	slog.InfoContext(ctx, "daily digest completed",
		slog.Int("users", stats.Users),
		slog.Int("summaries", stats.Summaries),
		slog.Int("null_summaries", stats.NullSummaries),
		slog.Int("skipped", stats.Skipped),
		slog.Int64("sent", stats.Sent),
		slog.Duration("duration", stats.Duration))

	return &RunResult{
		Success: true,
		Message: "Daily news summary emails sent successfully",
		Stats:   stats,
	}, nil
}

// buildUserSummary assembles and summarizes one user's news.
//
// The second return value reports a silent skip: the user has no
// watchlist and general news is also empty, so there is nothing to send
// and nothing to record.
func (s *Service) buildUserSummary(ctx context.Context, user *entity.User) (summaryRecord, bool) {
	symbols := s.Watchlist.SymbolsByEmail(ctx, user.Email)

	articles, err := s.News.GetNews(ctx, symbols)
	if err != nil {
		slog.ErrorContext(ctx, "news fetch failed for user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()))
		return summaryRecord{user: user}, false
	}

	// A watchlist that produced nothing in the lookback window falls
	// back to general market news.
	if len(articles) == 0 && len(symbols) > 0 {
		articles, err = s.News.GetNews(ctx, nil)
		if err != nil {
			slog.ErrorContext(ctx, "general news fallback failed for user",
				slog.String("email", user.Email),
				slog.String("error", err.Error()))
			return summaryRecord{user: user}, false
		}
	}

	if len(articles) == 0 {
		return summaryRecord{}, true
	}

	newsJSON, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		slog.ErrorContext(ctx, "news encoding failed for user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()))
		return summaryRecord{user: user}, false
	}

	summarizeStart := s.now()
	summary, err := s.Summarizer.SummarizeNews(ctx, string(newsJSON))
	metrics.RecordSummarizationDuration(s.now().Sub(summarizeStart))
	metrics.RecordSummaryGenerated(err == nil)
	if err != nil {
		slog.ErrorContext(ctx, "summarization failed for user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()))
		return summaryRecord{user: user}, false
	}

	if summary == "" {
		summary = emptySummaryFallback
	}
	return summaryRecord{user: user, summary: &summary}, false
}

// dispatch delivers summaries in parallel, bounded by the configured
// concurrency limit. Users with a nil summary are not mailed.
func (s *Service) dispatch(ctx context.Context, records []summaryRecord, date string, stats *Stats) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.Config.DispatchMaxConcurrent)

	sent := &stats.Sent

	for _, record := range records {
		if record.summary == nil {
			continue
		}
		record := record
		group.Go(func() error {
			if err := s.Mailer.SendNewsSummaryEmail(groupCtx, record.user.Email, date, *record.summary); err != nil {
				return fmt.Errorf("send news summary to %s: %w", record.user.Email, err)
			}
			atomic.AddInt64(sent, 1)
			return nil
		})
	}

	return group.Wait()
}
