package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Credential is a username/password pair inserted on first start.
type Credential struct {
	Username string
	Password string
}

// DefaultUsers are created when the users table is empty.
var DefaultUsers = []Credential{
	{Username: "juan", Password: "1234"},
	{Username: "marcio", Password: "1234"},
}

// SeedUsers inserts DefaultUsers in a single transaction if, and only if, the
// users table has no rows. It reports whether anything was inserted.
func SeedUsers(ctx context.Context, db *sqlx.DB) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "Users already present, skipping seed", "count", count)
		return false, nil
	}

	for _, u := range DefaultUsers {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (username, password) VALUES (?, ?)`, u.Username, u.Password); err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed: %w", err)
	}

	slog.InfoContext(ctx, "Default users created", "count", len(DefaultUsers))
	return true, nil
}
