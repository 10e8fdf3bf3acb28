package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"signalist/internal/domain/entity"
	"signalist/internal/observability/metrics"
	"signalist/internal/resilience/circuitbreaker"
)

const userAgent = "SignalistBot/1.0"

// ReadabilityFetcher extracts readable article text from news pages using
// the Mozilla Readability algorithm. Fetches go through a circuit breaker
// and every URL, including each redirect target, is validated against the
// SSRF rules before it is requested.
//
// ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
}

// NewReadabilityFetcher creates a content fetcher with the given
// configuration.
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:         config,
	}

	f.client = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := f.validate(req.URL.String()); err != nil {
				return fmt.Errorf("redirect target rejected: %w", err)
			}
			return nil
		},
	}

	return f
}

// FetchContent fetches the article page at urlStr and returns its readable
// text. The URL is validated first, then the fetch runs through the
// circuit breaker. Fetch outcomes are recorded as metrics.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := f.validate(urlStr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	start := time.Now()

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})

	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		return "", err
	}

	content := result.(string)
	metrics.RecordContentFetchSuccess(time.Since(start), len(content))

	return content, nil
}

// validate applies the URL security rules. With DenyPrivateIPs enabled the
// target host is resolved and checked against private ranges; otherwise
// only the scheme is verified.
func (f *ReadabilityFetcher) validate(urlStr string) error {
	if f.config.DenyPrivateIPs {
		return entity.ValidateURL(urlStr)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %q", parsed.Scheme)
	}
	return nil
}

// doFetch performs one HTTP request and readability extraction. Called
// through the circuit breaker.
func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// The final URL may differ from the request URL after redirects.
	finalURL, err := url.Parse(urlStr)
	if err != nil {
		finalURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	article, err := readability.FromReader(io.NopCloser(bytes.NewReader(htmlBytes)), finalURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		slog.DebugContext(ctx, "no text content extracted, trying raw content",
			slog.String("url", urlStr))
		text = strings.TrimSpace(article.Content)
	}
	if text == "" {
		return "", fmt.Errorf("%w: no readable content found", ErrExtractionFailed)
	}

	return text, nil
}
