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

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) repository.UserRepository {
	return &UserRepo{db: db}
}

func (repo *UserRepo) ListForNewsEmail(ctx context.Context) ([]*entity.User, error) {
	const query = `
SELECT id, email, name
FROM users
WHERE email IS NOT NULL AND email <> ''
ORDER BY id ASC`
	defer func(start time.Time) {
		metrics.RecordDBQuery("list_users_for_news_email", time.Since(start))
	}(time.Now())

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListForNewsEmail: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*entity.User, 0, 50)
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name); err != nil {
			return nil, fmt.Errorf("ListForNewsEmail: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (repo *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `
SELECT id, email, name, country, investment_goals, risk_tolerance, preferred_industry, created_at
FROM users
WHERE email = $1
LIMIT 1`
	defer func(start time.Time) {
		metrics.RecordDBQuery("find_user_by_email", time.Since(start))
	}(time.Now())

	var user entity.User
	var country, goals, risk, industry sql.NullString
	err := repo.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Name,
		&country, &goals, &risk, &industry, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindByEmail: %w", err)
	}

	user.Country = country.String
	user.InvestmentGoals = goals.String
	user.RiskTolerance = risk.String
	user.PreferredIndustry = industry.String
	return &user, nil
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (email, name, country, investment_goals, risk_tolerance, preferred_industry)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO NOTHING`
	defer func(start time.Time) {
		metrics.RecordDBQuery("create_user", time.Since(start))
	}(time.Now())

	_, err := repo.db.ExecContext(ctx, query,
		user.Email, user.Name,
		user.Country, user.InvestmentGoals,
		user.RiskTolerance, user.PreferredIndustry,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
