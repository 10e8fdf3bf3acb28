package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"signalist/internal/domain/entity"
	"signalist/internal/infra/adapter/persistence/postgres"
)

func TestWatchlistRepo_ListSymbolsByUserID(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM watchlists`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"symbol"}).
			AddRow("AAPL").
			AddRow("MSFT"))

	repo := postgres.NewWatchlistRepo(db)
	got, err := repo.ListSymbolsByUserID(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListSymbolsByUserID err=%v", err)
	}
	if diff := cmp.Diff([]string{"AAPL", "MSFT"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestWatchlistRepo_ListSymbolsByUserID_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM watchlists`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"symbol"}))

	repo := postgres.NewWatchlistRepo(db)
	got, err := repo.ListSymbolsByUserID(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListSymbolsByUserID err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len=%d want 0", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestWatchlistRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	added := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM watchlists`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "symbol", "company", "added_at"}).
			AddRow(int64(3), int64(1), "TSLA", "Tesla Inc", added))

	repo := postgres.NewWatchlistRepo(db)
	got, err := repo.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	want := []*entity.WatchlistEntry{
		{ID: 3, UserID: 1, Symbol: "TSLA", Company: "Tesla Inc", AddedAt: added},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestWatchlistRepo_Add(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO watchlists`)).
		WithArgs(int64(1), "NVDA", "NVIDIA Corp").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := postgres.NewWatchlistRepo(db)
	err := repo.Add(context.Background(), &entity.WatchlistEntry{
		UserID: 1, Symbol: "NVDA", Company: "NVIDIA Corp",
	})
	if err != nil {
		t.Fatalf("Add err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestWatchlistRepo_Remove_NoRows(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM watchlists`)).
		WithArgs(int64(1), "NVDA").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := postgres.NewWatchlistRepo(db)
	if err := repo.Remove(context.Background(), 1, "NVDA"); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing row, got %v", err)
	}
}

func TestWatchlistRepo_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM watchlists`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection reset"))

	repo := postgres.NewWatchlistRepo(db)
	if _, err := repo.ListSymbolsByUserID(context.Background(), 1); err == nil {
		t.Fatal("want error, got nil")
	}
}
