package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

// Pragmas applied to every pooled connection. SQLite scopes foreign_keys to
// the connection, so it has to travel in the DSN rather than run once.
var connectionPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// Mode selects which schema is created.
type Mode int

const (
	// MultiUser owns every record by a row of users.
	MultiUser Mode = iota
	// SingleUser has no users table and owner-less records.
	SingleUser
)

// DSN builds the driver connection string for a database file.
func DSN(path string) string {
	q := url.Values{}
	for _, p := range connectionPragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// Open opens the SQLite database file at path and verifies it is reachable.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", path, err)
	}
	slog.InfoContext(ctx, "Connected to database", "path", path)
	return pool, nil
}

// InitializeDB creates the schema for the given mode and, in multi-user mode,
// seeds the default users. It is safe to run on every start: tables are only
// created when absent and seeding only happens on an empty users table.
// Seeding is attempted even when the schema step fails; both errors are
// returned joined.
func InitializeDB(ctx context.Context, db *sqlx.DB, mode Mode) error {
	schemaErr := CreateSchema(ctx, db, mode)
	if mode == SingleUser {
		return schemaErr
	}
	_, seedErr := SeedUsers(ctx, db)
	return errors.Join(schemaErr, seedErr)
}

// CreateSchema runs the idempotent CREATE TABLE statements.
func CreateSchema(ctx context.Context, db *sqlx.DB, mode Mode) error {
	statements := []string{usersSchema, workoutsSchema}
	if mode == SingleUser {
		statements = []string{singleUserWorkoutsSchema}
	}

	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	slog.InfoContext(ctx, "Schema created or verified", "single_user", mode == SingleUser)
	return nil
}
