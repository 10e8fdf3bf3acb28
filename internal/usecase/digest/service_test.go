package digest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalist/internal/domain/entity"
)

type mockUserRepo struct {
	users []*entity.User
	err   error
}

func (m *mockUserRepo) ListForNewsEmail(_ context.Context) ([]*entity.User, error) {
	return m.users, m.err
}

func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(_ context.Context, _ *entity.User) error {
	return nil
}

type mockWatchlist struct {
	symbolsByEmail map[string][]string
}

func (m *mockWatchlist) SymbolsByEmail(_ context.Context, email string) []string {
	return m.symbolsByEmail[email]
}

type mockNews struct {
	mu            sync.Mutex
	personalNews  []*entity.NewsArticle
	generalNews   []*entity.NewsArticle
	personalErr   error
	generalErr    error
	generalCalls  int
	personalCalls int
}

func (m *mockNews) GetNews(_ context.Context, symbols []string) ([]*entity.NewsArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(symbols) == 0 {
		m.generalCalls++
		return m.generalNews, m.generalErr
	}
	m.personalCalls++
	return m.personalNews, m.personalErr
}

type mockSummarizer struct {
	mu      sync.Mutex
	summary string
	err     error
	failOn  string // fail calls whose payload contains this substring
	inputs  []string
}

func (m *mockSummarizer) SummarizeNews(_ context.Context, newsJSON string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, newsJSON)
	if m.failOn != "" && strings.Contains(newsJSON, m.failOn) {
		return "", errors.New("model overloaded")
	}
	return m.summary, m.err
}

type mockMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]error
}

func (m *mockMailer) SendNewsSummaryEmail(_ context.Context, email, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failTo[email]; ok {
		return err
	}
	m.sent = append(m.sent, email)
	return nil
}

func article(headline string) *entity.NewsArticle {
	return &entity.NewsArticle{
		ID: "1", Headline: headline, URL: "https://example.com/a", Datetime: 100,
	}
}

func newTestService(users *mockUserRepo, wl *mockWatchlist, news *mockNews, sum *mockSummarizer, mail *mockMailer) *Service {
	svc := NewService(users, wl, news, sum, mail, Config{DispatchMaxConcurrent: 2})
	svc.now = func() time.Time {
		return time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	}
	return &svc
}

func TestRunDaily_Success(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{
		{ID: 1, Email: "alice@example.com", Name: "Alice"},
		{ID: 2, Email: "bob@example.com", Name: "Bob"},
	}}
	wl := &mockWatchlist{symbolsByEmail: map[string][]string{
		"alice@example.com": {"AAPL"},
	}}
	news := &mockNews{
		personalNews: []*entity.NewsArticle{article("Apple story")},
		generalNews:  []*entity.NewsArticle{article("Market story")},
	}
	sum := &mockSummarizer{summary: "<p>Summary</p>"}
	mail := &mockMailer{}

	result, err := newTestService(users, wl, news, sum, mail).RunDaily(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Daily news summary emails sent successfully", result.Message)
	assert.Equal(t, 2, result.Stats.Users)
	assert.Equal(t, 2, result.Stats.Summaries)
	assert.Equal(t, int64(2), result.Stats.Sent)
	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, mail.sent)
}

func TestRunDaily_EmptyRoster(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockWatchlist{}, &mockNews{}, &mockSummarizer{}, &mockMailer{})

	result, err := svc.RunDaily(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "No users found for news email", result.Message)
}

func TestRunDaily_RosterErrorIsFatal(t *testing.T) {
	svc := newTestService(
		&mockUserRepo{err: errors.New("connection reset")},
		&mockWatchlist{}, &mockNews{}, &mockSummarizer{}, &mockMailer{},
	)

	result, err := svc.RunDaily(context.Background())

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRunDaily_FetchErrorNullsSummary(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{{ID: 1, Email: "alice@example.com"}}}
	wl := &mockWatchlist{symbolsByEmail: map[string][]string{"alice@example.com": {"AAPL"}}}
	news := &mockNews{personalErr: errors.New("finnhub down")}
	mail := &mockMailer{}

	result, err := newTestService(users, wl, news, &mockSummarizer{}, mail).RunDaily(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.NullSummaries)
	assert.Empty(t, mail.sent, "a failed user gets no email and no general fallback attempt")
	assert.Equal(t, 0, news.generalCalls)
}

func TestRunDaily_SummarizerFailureIsolatedPerUser(t *testing.T) {
	// Three users; the middle one's summarization call fails. The other
	// two must still be summarized and mailed, and the failed user is
	// recorded with a null summary instead of aborting the run.
	users := &mockUserRepo{users: []*entity.User{
		{ID: 1, Email: "alice@example.com"},
		{ID: 2, Email: "bob@example.com"},
		{ID: 3, Email: "carol@example.com"},
	}}
	wl := &mockWatchlist{symbolsByEmail: map[string][]string{
		"bob@example.com": {"TSLA"},
	}}
	news := &mockNews{
		personalNews: []*entity.NewsArticle{article("Bob story")},
		generalNews:  []*entity.NewsArticle{article("Market story")},
	}
	sum := &mockSummarizer{summary: "<p>ok</p>", failOn: "Bob story"}
	mail := &mockMailer{}

	result, err := newTestService(users, wl, news, sum, mail).RunDaily(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Stats.Users)
	assert.Equal(t, 2, result.Stats.Summaries)
	assert.Equal(t, 1, result.Stats.NullSummaries)
	assert.Equal(t, int64(2), result.Stats.Sent)
	assert.ElementsMatch(t, []string{"alice@example.com", "carol@example.com"}, mail.sent)
}

func TestRunDaily_EmptyWatchlistNewsFallsBackToGeneral(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{{ID: 1, Email: "alice@example.com"}}}
	wl := &mockWatchlist{symbolsByEmail: map[string][]string{"alice@example.com": {"AAPL"}}}
	news := &mockNews{
		personalNews: nil, // watchlist produced nothing
		generalNews:  []*entity.NewsArticle{article("General story")},
	}
	sum := &mockSummarizer{summary: "<p>General</p>"}
	mail := &mockMailer{}

	result, err := newTestService(users, wl, news, sum, mail).RunDaily(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, news.generalCalls)
	assert.Equal(t, int64(1), result.Stats.Sent)
}

func TestRunDaily_NoNewsAnywhereSkipsSilently(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{{ID: 1, Email: "alice@example.com"}}}
	mail := &mockMailer{}

	result, err := newTestService(users, &mockWatchlist{}, &mockNews{}, &mockSummarizer{}, mail).RunDaily(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.Skipped)
	assert.Equal(t, 0, result.Stats.Summaries)
	assert.Equal(t, 0, result.Stats.NullSummaries)
	assert.Empty(t, mail.sent)
}

func TestRunDaily_SummarizerReceivesIndentedJSON(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{{ID: 1, Email: "alice@example.com"}}}
	news := &mockNews{generalNews: []*entity.NewsArticle{article("Story")}}
	sum := &mockSummarizer{summary: "<p>ok</p>"}

	_, err := newTestService(users, &mockWatchlist{}, news, sum, &mockMailer{}).RunDaily(context.Background())

	require.NoError(t, err)
	require.Len(t, sum.inputs, 1)

	var decoded []*entity.NewsArticle
	require.NoError(t, json.Unmarshal([]byte(sum.inputs[0]), &decoded))
	assert.Contains(t, sum.inputs[0], "\n  ", "news payload should be indented")
	require.Len(t, decoded, 1)
	assert.Equal(t, "Story", decoded[0].Headline)
}

func TestRunDaily_EmptySummaryGetsFallback(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{{ID: 1, Email: "alice@example.com"}}}
	news := &mockNews{generalNews: []*entity.NewsArticle{article("Story")}}
	sum := &mockSummarizer{summary: ""}

	var gotSummary string
	captureMailer := mailerFunc(func(_ context.Context, _, _, summary string) error {
		gotSummary = summary
		return nil
	})

	svc := NewService(users, &mockWatchlist{}, news, sum, captureMailer, Config{DispatchMaxConcurrent: 1})
	_, err := svc.RunDaily(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "No market news.", gotSummary)
}

func TestRunDaily_DispatchFailureFailsRunButSentStaySent(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{
		{ID: 1, Email: "alice@example.com"},
		{ID: 2, Email: "bob@example.com"},
	}}
	news := &mockNews{generalNews: []*entity.NewsArticle{article("Story")}}
	sum := &mockSummarizer{summary: "<p>ok</p>"}
	mail := &mockMailer{failTo: map[string]error{"bob@example.com": errors.New("smtp refused")}}

	result, err := newTestService(users, &mockWatchlist{}, news, sum, mail).RunDaily(context.Background())

	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, mail.sent, "alice@example.com")
}

func TestRunDaily_DateFormat(t *testing.T) {
	users := &mockUserRepo{users: []*entity.User{{ID: 1, Email: "alice@example.com"}}}
	news := &mockNews{generalNews: []*entity.NewsArticle{article("Story")}}
	sum := &mockSummarizer{summary: "<p>ok</p>"}

	var gotDate string
	captureMailer := mailerFunc(func(_ context.Context, _, date, _ string) error {
		gotDate = date
		return nil
	})

	svc := NewService(users, &mockWatchlist{}, news, sum, captureMailer, Config{DispatchMaxConcurrent: 1})
	svc.now = func() time.Time {
		return time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	}

	_, err := svc.RunDaily(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Friday, June 6, 2025", gotDate)
}

// mailerFunc adapts a function to the SummaryMailer interface.
type mailerFunc func(ctx context.Context, email, date, summary string) error

func (f mailerFunc) SendNewsSummaryEmail(ctx context.Context, email, date, summary string) error {
	return f(ctx, email, date, summary)
}
