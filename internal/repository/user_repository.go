package repository

import (
	"context"

	"signalist/internal/domain/entity"
)

// UserRepository provides access to registered users.
type UserRepository interface {
	// ListForNewsEmail retrieves every user eligible for the daily news
	// digest. Only id, email and name are populated; the profile fields
	// are not needed for the digest path.
	// Returns users ordered by id ASC.
	ListForNewsEmail(ctx context.Context) ([]*entity.User, error)
	// FindByEmail retrieves a single user by email address including the
	// investment profile fields used for welcome email personalization.
	// Returns entity.ErrNotFound if no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create persists a new user record sourced from the sign-up flow.
	Create(ctx context.Context, user *entity.User) error
}
