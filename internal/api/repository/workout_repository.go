package repository

import (
	"context"
	"ctchen222/Workout-Log/internal/api/models"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=workout_repository.go -destination=mocks/workout_repository_mock.go -package=mocks

// WorkoutRepository defines the interface for workout record operations.
type WorkoutRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Workout, error)
	ListAll(ctx context.Context) ([]models.Workout, error)
	Create(ctx context.Context, w *models.Workout) error
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteOwned(ctx context.Context, id, userID int64) (int64, error)
}

// The driver turns text stored in DATE columns into time.Time; the cast keeps
// fecha exactly as it was written.
const workoutColumns = `id, CAST(fecha AS TEXT) AS fecha, tipo_ejercicio, series, repeticiones, peso`

type sqliteWorkoutRepository struct {
	db *sqlx.DB
}

// NewWorkoutRepository creates a new SQLite-based WorkoutRepository.
func NewWorkoutRepository(db *sqlx.DB) WorkoutRepository {
	return &sqliteWorkoutRepository{db: db}
}

// ListByUser returns the records owned by userID in insertion order.
func (r *sqliteWorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]models.Workout, error) {
	ctx, span := tracer.Start(ctx, "WorkoutRepository.ListByUser", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	query := `SELECT ` + workoutColumns + `, user_id
		FROM entrenamientos WHERE user_id = ? ORDER BY id`
	workouts, err := r.list(ctx, query, userID)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to list workouts for user %d: %w", userID, err)
	}
	return workouts, nil
}

// ListAll returns every record in insertion order. The owner column is not
// selected since the single-user schema does not have it.
func (r *sqliteWorkoutRepository) ListAll(ctx context.Context) ([]models.Workout, error) {
	ctx, span := tracer.Start(ctx, "WorkoutRepository.ListAll")
	defer span.End()

	query := `SELECT ` + workoutColumns + `
		FROM entrenamientos ORDER BY id`
	workouts, err := r.list(ctx, query)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

// Create inserts w and sets its ID. A nil UserID inserts an owner-less row.
func (r *sqliteWorkoutRepository) Create(ctx context.Context, w *models.Workout) error {
	ctx, span := tracer.Start(ctx, "WorkoutRepository.Create")
	defer span.End()

	query := `INSERT INTO entrenamientos (fecha, tipo_ejercicio, series, repeticiones, peso, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{w.Fecha, w.Ejercicio, w.Series, w.Repeticiones, w.Peso, w.UserID}
	if w.UserID == nil {
		query = `INSERT INTO entrenamientos (fecha, tipo_ejercicio, series, repeticiones, peso)
			VALUES (?, ?, ?, ?, ?)`
		args = args[:5]
	}

	err := withConn(ctx, r.db, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		w.ID = id
		return nil
	})
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("failed to create workout: %w", err)
	}
	span.SetAttributes(attribute.Int64("workout.id", w.ID))
	return nil
}

// Delete removes the record with the given id whoever owns it and reports how
// many rows were removed. An unknown id removes nothing and is not an error.
func (r *sqliteWorkoutRepository) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "WorkoutRepository.Delete", trace.WithAttributes(
		attribute.Int64("workout.id", id),
	))
	defer span.End()

	n, err := r.exec(ctx, `DELETE FROM entrenamientos WHERE id = ?`, id)
	if err != nil {
		recordError(span, err)
		return 0, fmt.Errorf("failed to delete workout %d: %w", id, err)
	}
	return n, nil
}

// DeleteOwned removes the record only if it belongs to userID.
func (r *sqliteWorkoutRepository) DeleteOwned(ctx context.Context, id, userID int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "WorkoutRepository.DeleteOwned", trace.WithAttributes(
		attribute.Int64("workout.id", id),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	n, err := r.exec(ctx, `DELETE FROM entrenamientos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		recordError(span, err)
		return 0, fmt.Errorf("failed to delete workout %d: %w", id, err)
	}
	return n, nil
}

func (r *sqliteWorkoutRepository) list(ctx context.Context, query string, args ...any) ([]models.Workout, error) {
	workouts := []models.Workout{}
	err := withConn(ctx, r.db, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &workouts, query, args...)
	})
	return workouts, err
}

func (r *sqliteWorkoutRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := withConn(ctx, r.db, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}
