package repository

import (
	"context"
	"ctchen222/Workout-Log/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=user_repository.go -destination=mocks/user_repository_mock.go -package=mocks

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// GetUserByUsername retrieves a user by exact username. A missing user yields
// (nil, nil).
func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByUsername")
	defer span.End()

	user, err := r.getOne(ctx, `SELECT id, username, password FROM users WHERE username = ?`, username)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by id. A missing user yields (nil, nil).
func (r *sqliteUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByID", trace.WithAttributes(
		attribute.Int64("user.id", id),
	))
	defer span.End()

	user, err := r.getOne(ctx, `SELECT id, username, password FROM users WHERE id = ?`, id)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by id.
func (r *sqliteUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.ListUsers")
	defer span.End()

	users := []models.User{}
	err := withConn(ctx, r.db, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &users, `SELECT id, username, password FROM users ORDER BY id`)
	})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *sqliteUserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := withConn(ctx, r.db, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &user, query, arg)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		return nil, err
	}
	return &user, nil
}
