// Package watchlist provides use cases for reading user watchlists.
package watchlist

import (
	"context"
	"errors"
	"log/slog"

	"signalist/internal/domain/entity"
	"signalist/internal/repository"
)

// Service provides watchlist read use cases.
type Service struct {
	UserRepo      repository.UserRepository
	WatchlistRepo repository.WatchlistRepository
}

// NewService creates a new watchlist Service with the provided repositories.
func NewService(userRepo repository.UserRepository, watchlistRepo repository.WatchlistRepository) Service {
	return Service{
		UserRepo:      userRepo,
		WatchlistRepo: watchlistRepo,
	}
}

// SymbolsByEmail resolves a user's watchlist symbols by email address.
//
// This method never returns an error: an unknown email, an empty
// watchlist, or a repository failure all yield an empty slice. The digest
// pipeline treats "no symbols" as the signal to fall back to general
// market news, so lookup failures degrade to that path instead of
// aborting a user's digest.
func (s *Service) SymbolsByEmail(ctx context.Context, email string) []string {
	if email == "" {
		return []string{}
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		// An unknown email is a normal outcome, not a failure.
		return []string{}
	}
	if err != nil {
		slog.ErrorContext(ctx, "watchlist user lookup failed",
			slog.String("email", email),
			slog.String("error", err.Error()))
		return []string{}
	}

	symbols, err := s.WatchlistRepo.ListSymbolsByUserID(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "watchlist symbols lookup failed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
		return []string{}
	}

	return entity.NormalizeSymbols(symbols)
}
