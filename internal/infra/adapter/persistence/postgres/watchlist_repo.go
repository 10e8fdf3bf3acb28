package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"signalist/internal/domain/entity"
	"signalist/internal/observability/metrics"
	"signalist/internal/repository"
)

type WatchlistRepo struct{ db *sql.DB }

func NewWatchlistRepo(db *sql.DB) repository.WatchlistRepository {
	return &WatchlistRepo{db: db}
}

func (repo *WatchlistRepo) ListSymbolsByUserID(ctx context.Context, userID int64) ([]string, error) {
	const query = `
SELECT symbol
FROM watchlists
WHERE user_id = $1
ORDER BY added_at DESC`
	defer func(start time.Time) {
		metrics.RecordDBQuery("list_watchlist_symbols", time.Since(start))
	}(time.Now())

	rows, err := repo.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ListSymbolsByUserID: %w", err)
	}
	defer func() { _ = rows.Close() }()

	symbols := make([]string, 0, 10)
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("ListSymbolsByUserID: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

func (repo *WatchlistRepo) List(ctx context.Context, userID int64) ([]*entity.WatchlistEntry, error) {
	const query = `
SELECT id, user_id, symbol, company, added_at
FROM watchlists
WHERE user_id = $1
ORDER BY added_at DESC`
	defer func(start time.Time) {
		metrics.RecordDBQuery("list_watchlist", time.Since(start))
	}(time.Now())

	rows, err := repo.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.WatchlistEntry, 0, 10)
	for rows.Next() {
		var entry entity.WatchlistEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Symbol, &entry.Company, &entry.AddedAt); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (repo *WatchlistRepo) Add(ctx context.Context, entry *entity.WatchlistEntry) error {
	const query = `
INSERT INTO watchlists (user_id, symbol, company)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, symbol) DO NOTHING`
	_, err := repo.db.ExecContext(ctx, query, entry.UserID, entry.Symbol, entry.Company)
	if err != nil {
		return fmt.Errorf("Add: %w", err)
	}
	return nil
}

func (repo *WatchlistRepo) Remove(ctx context.Context, userID int64, symbol string) error {
	const query = `DELETE FROM watchlists WHERE user_id = $1 AND symbol = $2`
	res, err := repo.db.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Remove: %w", entity.ErrNotFound)
	}
	return nil
}
