package db

import (
	"database/sql"
)

// MigrateUp creates the users and watchlists tables and their indexes.
// Every statement is idempotent, so running it on an up-to-date database
// is a no-op.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id                 SERIAL PRIMARY KEY,
    email              TEXT NOT NULL UNIQUE,
    name               TEXT NOT NULL,
    country            TEXT,
    investment_goals   TEXT,
    risk_tolerance     TEXT,
    preferred_industry TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS watchlists (
    id       SERIAL PRIMARY KEY,
    user_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    symbol   TEXT NOT NULL,
    company  TEXT NOT NULL DEFAULT '',
    added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE(user_id, symbol)
)`); err != nil {
		return err
	}

	indexes := []string{
		// digest roster scan and email lookups
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		// per-user watchlist resolution, newest entries first
		`CREATE INDEX IF NOT EXISTS idx_watchlists_user_id ON watchlists(user_id, added_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the schema in reverse order of creation. It deletes
// every user and watchlist row; it exists for local development only.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_watchlists_user_id`,
		`DROP INDEX IF EXISTS idx_users_email`,
		`DROP TABLE IF EXISTS watchlists CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
