package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"signalist/internal/domain/entity"
	"signalist/internal/observability/metrics"
	"signalist/internal/resilience/circuitbreaker"
	"signalist/internal/resilience/retry"
)

// maxResponseBody caps Finnhub response reads at 10MB.
const maxResponseBody = 10 * 1024 * 1024

// Client is a Finnhub REST API client with circuit breaker, retry,
// rate limiting, and response caching.
type Client struct {
	httpClient     *http.Client
	config         Config
	cache          *ttlCache
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewClient creates a new Finnhub client with the given configuration.
// It automatically configures circuit breaker, retry logic, rate limiting,
// and the symbol search cache.
func NewClient(cfg Config) *Client {
	slog.Info("Initialized Finnhub client",
		slog.String("base_url", cfg.BaseURL),
		slog.Duration("timeout", cfg.Timeout),
		slog.Duration("search_cache_ttl", cfg.SearchCacheTTL))

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		config:         cfg,
		cache:          newTTLCache(),
		limiter:        rate.NewLimiter(cfg.RequestsPerSecond, int(cfg.RequestsPerSecond)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.FinnhubAPIConfig()),
		retryConfig:    retry.MarketDataConfig(),
	}
}

// CompanyNews retrieves news articles for a single symbol over the given
// inclusive date range. Dates are in YYYY-MM-DD format. Responses are not
// cached because the date range moves daily.
func (c *Client) CompanyNews(ctx context.Context, symbol, from, to string) ([]entity.RawNewsArticle, error) {
	endpoint := fmt.Sprintf("%s/company-news?symbol=%s&from=%s&to=%s&token=%s",
		c.config.BaseURL, url.QueryEscape(symbol), from, to, c.config.APIKey)

	var articles []entity.RawNewsArticle
	if err := c.fetchJSON(ctx, endpoint, 0, &articles); err != nil {
		metrics.RecordNewsFetchError("company", classifyError(err))
		return nil, fmt.Errorf("company news for %s: %w", symbol, err)
	}

	metrics.RecordNewsFetched("company", len(articles))
	return articles, nil
}

// GeneralNews retrieves general market news from the "general" category.
func (c *Client) GeneralNews(ctx context.Context) ([]entity.RawNewsArticle, error) {
	endpoint := fmt.Sprintf("%s/news?category=general&token=%s",
		c.config.BaseURL, c.config.APIKey)

	var articles []entity.RawNewsArticle
	if err := c.fetchJSON(ctx, endpoint, 0, &articles); err != nil {
		metrics.RecordNewsFetchError("general", classifyError(err))
		return nil, fmt.Errorf("general news: %w", err)
	}

	metrics.RecordNewsFetched("general", len(articles))
	return articles, nil
}

// SearchStocks searches Finnhub for symbols matching the query.
// Responses are cached for the configured search TTL since the symbol
// universe changes slowly.
func (c *Client) SearchStocks(ctx context.Context, query string) ([]entity.StockMatch, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&token=%s",
		c.config.BaseURL, url.QueryEscape(query), c.config.APIKey)

	var response struct {
		Count  int                 `json:"count"`
		Result []entity.StockMatch `json:"result"`
	}
	if err := c.fetchJSON(ctx, endpoint, c.config.SearchCacheTTL, &response); err != nil {
		return nil, fmt.Errorf("search stocks %q: %w", query, err)
	}

	return response.Result, nil
}

// fetchJSON performs a GET request against the given endpoint and decodes
// the JSON response into v. Cached responses are served without a network
// round trip. Fresh responses are cached for ttl when ttl > 0.
func (c *Client) fetchJSON(ctx context.Context, endpoint string, ttl time.Duration, v interface{}) error {
	if cached := c.cache.get(endpoint); cached != nil {
		return json.Unmarshal(cached, v)
	}

	// Respect the API rate limit before attempting the request
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var body []byte

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, endpoint)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("finnhub api circuit breaker open, request rejected",
					slog.String("service", "finnhub-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("finnhub api unavailable: circuit breaker open")
			}
			return err
		}

		body = cbResult.([]byte)
		return nil
	})

	if retryErr != nil {
		return fmt.Errorf("finnhub request failed after retries: %w", retryErr)
	}

	c.cache.set(endpoint, body, ttl)
	return json.Unmarshal(body, v)
}

// doRequest performs the actual HTTP call without retry or circuit breaker.
func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "finnhub request failed",
			slog.String("url", sanitizeURL(endpoint)),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "finnhub returned non-200 status",
			slog.String("url", sanitizeURL(endpoint)),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    "finnhub api error",
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	slog.DebugContext(ctx, "finnhub request completed",
		slog.String("url", sanitizeURL(endpoint)),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return body, nil
}

// sanitizeURL strips the API token from a URL before it reaches the logs.
func sanitizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "(unparseable url)"
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// classifyError maps a request error to a coarse metric label.
func classifyError(err error) string {
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limited"
		case httpErr.StatusCode >= 500:
			return "server_error"
		default:
			return "client_error"
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "network"
}
