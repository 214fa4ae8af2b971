package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Migrate applies the schema in order. Every statement is idempotent so
// the service can run it on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username VARCHAR(50) PRIMARY KEY,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			phone VARCHAR(30) NOT NULL,
			join_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			from_username VARCHAR(50) NOT NULL REFERENCES users(username),
			to_username VARCHAR(50) NOT NULL REFERENCES users(username),
			body TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			read_at TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_from_username
		ON messages(from_username)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_to_username
		ON messages(to_username)`,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}
