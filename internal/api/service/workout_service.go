package service

import (
	"context"
	"ctchen222/Workout-Log/internal/api/models"
	"ctchen222/Workout-Log/internal/api/repository"
	"ctchen222/Workout-Log/internal/validator"
	"errors"
	"fmt"
	"strconv"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/metric"
)

// ErrValidation wraps every rejection of an add request. Nothing is written
// when it is returned.
var ErrValidation = errors.New("invalid workout")

// WorkoutService defines the interface for workout record logic. A nil owner
// means the application runs in single-user mode.
type WorkoutService interface {
	List(ctx context.Context, owner *models.User) ([]models.Workout, error)
	Add(ctx context.Context, owner *models.User, req *models.AddWorkoutRequest) (*models.Workout, error)
	Delete(ctx context.Context, owner *models.User, id int64) error
}

type workoutService struct {
	workoutRepo       repository.WorkoutRepository
	ownerScopedDelete bool
	added             metric.Int64Counter
	deleted           metric.Int64Counter
}

// NewWorkoutService creates a new WorkoutService. With ownerScopedDelete set,
// Delete only removes records owned by the caller.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, ownerScopedDelete bool) WorkoutService {
	return &workoutService{
		workoutRepo:       workoutRepo,
		ownerScopedDelete: ownerScopedDelete,
		added:             newCounter("workoutlog.workouts.added", "Workout records created"),
		deleted:           newCounter("workoutlog.workouts.deleted", "Workout records deleted"),
	}
}

// List returns the owner's records, or every record without an owner.
func (s *workoutService) List(ctx context.Context, owner *models.User) ([]models.Workout, error) {
	if owner == nil {
		return s.workoutRepo.ListAll(ctx)
	}
	return s.workoutRepo.ListByUser(ctx, owner.ID)
}

// Add validates req and stores it as a record of owner.
func (s *workoutService) Add(ctx context.Context, owner *models.User, req *models.AddWorkoutRequest) (*models.Workout, error) {
	w, err := parseWorkout(req)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		w.UserID = &owner.ID
	}

	if err := s.workoutRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	s.added.Add(ctx, 1)
	return w, nil
}

// Delete removes the record with the given id. Unknown ids are ignored.
func (s *workoutService) Delete(ctx context.Context, owner *models.User, id int64) error {
	var (
		n   int64
		err error
	)
	if s.ownerScopedDelete && owner != nil {
		n, err = s.workoutRepo.DeleteOwned(ctx, id, owner.ID)
	} else {
		n, err = s.workoutRepo.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	s.deleted.Add(ctx, n)
	return nil
}

func parseWorkout(req *models.AddWorkoutRequest) (*models.Workout, error) {
	clean := models.AddWorkoutRequest{
		Fecha:        strings.TrimSpace(req.Fecha),
		Ejercicio:    strings.TrimSpace(req.Ejercicio),
		Series:       strings.TrimSpace(req.Series),
		Repeticiones: strings.TrimSpace(req.Repeticiones),
		Peso:         strings.TrimSpace(req.Peso),
	}
	if err := validator.GetValidator().Struct(clean); err != nil {
		return nil, validationError(err)
	}

	w := &models.Workout{Fecha: clean.Fecha, Ejercicio: clean.Ejercicio}
	numbers := []struct {
		field string
		value string
		dst   *int
	}{
		{"series", clean.Series, &w.Series},
		{"repeticiones", clean.Repeticiones, &w.Repeticiones},
		{"peso", clean.Peso, &w.Peso},
	}
	for _, n := range numbers {
		v, err := strconv.Atoi(n.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not an integer", ErrValidation, n.field)
		}
		*n.dst = v
	}
	return w, nil
}

func validationError(err error) error {
	var fieldErrs govalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}
