// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as NewsArticle, User and
// WatchlistEntry, along with their validation rules and domain-specific errors.
package entity

import (
	"strconv"
	"strings"
)

// RawNewsArticle is the provider-shaped article as returned by the
// market-data API. Fields are optional on the wire; callers must run
// ValidateArticle before trusting a value.
type RawNewsArticle struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// NewsArticle is the canonical article shape used throughout the digest
// pipeline. Datetime is epoch seconds and drives the descending sort.
type NewsArticle struct {
	ID           string `json:"id"`
	Headline     string `json:"headline"`
	Summary      string `json:"summary"`
	Source       string `json:"source"`
	Datetime     int64  `json:"datetime"`
	URL          string `json:"url"`
	Symbol       string `json:"symbol,omitempty"`
	Personalized bool   `json:"personalized"`
}

// defaultSource is used when the provider omits the publisher name.
const defaultSource = "Market News"

// ValidateArticle reports whether a provider article carries the minimum
// fields required for inclusion: a non-empty headline and a non-empty url.
func ValidateArticle(a *RawNewsArticle) bool {
	if a == nil {
		return false
	}
	return strings.TrimSpace(a.Headline) != "" && strings.TrimSpace(a.URL) != ""
}

// DedupKey returns the composite deduplication key for a provider article:
// the numeric id when present, otherwise the url, otherwise the headline,
// lowercased so the comparison is case-insensitive.
func (a *RawNewsArticle) DedupKey() string {
	if a.ID != 0 {
		return strconv.FormatInt(a.ID, 10)
	}
	if a.URL != "" {
		return strings.ToLower(a.URL)
	}
	return strings.ToLower(a.Headline)
}

// FormatArticle normalizes a provider article into the canonical NewsArticle
// shape. personalized tags provenance (watchlist-driven vs general market
// news) but does not change validation. relatedSymbol may be empty; when it
// is, the first symbol from the provider's Related field is used. index
// disambiguates articles that arrive without any stable identifier.
func FormatArticle(raw *RawNewsArticle, personalized bool, relatedSymbol string, index int) *NewsArticle {
	id := raw.URL
	if raw.ID != 0 {
		id = strconv.FormatInt(raw.ID, 10)
	}
	if id == "" {
		id = "article-" + strconv.Itoa(index)
	}

	source := strings.TrimSpace(raw.Source)
	if source == "" {
		source = defaultSource
	}

	symbol := strings.ToUpper(strings.TrimSpace(relatedSymbol))
	if symbol == "" && raw.Related != "" {
		parts := strings.SplitN(raw.Related, ",", 2)
		symbol = strings.ToUpper(strings.TrimSpace(parts[0]))
	}

	return &NewsArticle{
		ID:           id,
		Headline:     strings.TrimSpace(raw.Headline),
		Summary:      strings.TrimSpace(raw.Summary),
		Source:       source,
		Datetime:     raw.Datetime,
		URL:          strings.TrimSpace(raw.URL),
		Symbol:       symbol,
		Personalized: personalized,
	}
}

// NormalizeSymbols uppercases, trims and deduplicates a ticker list while
// preserving first-seen order. Blank entries are dropped; the result may be
// empty even for a non-empty input.
func NormalizeSymbols(symbols []string) []string {
	if len(symbols) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(symbols))
	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		cleaned = append(cleaned, sym)
	}

	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
