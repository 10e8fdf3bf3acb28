package repository

import (
	"context"

	"signalist/internal/domain/entity"
)

// WatchlistRepository provides access to per-user watchlist entries.
type WatchlistRepository interface {
	// ListSymbolsByUserID retrieves the ticker symbols on a user's
	// watchlist ordered by added_at DESC. Returns an empty slice when
	// the user has no entries.
	ListSymbolsByUserID(ctx context.Context, userID int64) ([]string, error)
	// List retrieves the full watchlist entries for a user ordered by
	// added_at DESC.
	List(ctx context.Context, userID int64) ([]*entity.WatchlistEntry, error)
	// Add inserts a watchlist entry. Duplicate (user_id, symbol) pairs
	// are ignored.
	Add(ctx context.Context, entry *entity.WatchlistEntry) error
	// Remove deletes a watchlist entry by user and symbol.
	Remove(ctx context.Context, userID int64, symbol string) error
}
