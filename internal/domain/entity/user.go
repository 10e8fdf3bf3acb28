package entity

import "time"

// User represents a registered user sourced from the external sign-up flow.
// Email doubles as the delivery address and the external join key.
type User struct {
	ID                int64
	Email             string
	Name              string
	Country           string
	InvestmentGoals   string
	RiskTolerance     string
	PreferredIndustry string
	CreatedAt         time.Time
}

// WatchlistEntry links a user to a single tracked ticker symbol.
// Symbol is stored uppercase and trimmed; a user may have 0..N entries.
// Entries are created by explicit user action and are read-only to the
// digest core.
type WatchlistEntry struct {
	ID      int64
	UserID  int64
	Symbol  string
	Company string
	AddedAt time.Time
}

// StockMatch is a single result from the market-data symbol search.
type StockMatch struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
}
