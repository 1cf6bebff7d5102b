package controller

import (
	"ctchen222/Workout-Log/internal/api/middleware"
	"ctchen222/Workout-Log/internal/api/models"
	"ctchen222/Workout-Log/internal/api/response"
	"ctchen222/Workout-Log/internal/api/service"
	"ctchen222/Workout-Log/internal/session"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// MissingDataMessage is flashed when an add request is rejected.
const MissingDataMessage = "Faltan datos o hay valores inválidos; el entrenamiento no se guardó."

// WorkoutController handles the workout pages and the workout JSON API.
type WorkoutController struct {
	workoutService service.WorkoutService
	sessions       *session.Manager
	multiUser      bool
}

// NewWorkoutController creates a new WorkoutController.
func NewWorkoutController(workoutService service.WorkoutService, sessions *session.Manager, multiUser bool) *WorkoutController {
	return &WorkoutController{
		workoutService: workoutService,
		sessions:       sessions,
		multiUser:      multiUser,
	}
}

// Index renders the caller's records.
func (wc *WorkoutController) Index(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.CurrentUser(c)

	flashes := wc.sessions.Flashes(c.Writer, c.Request)

	workouts, err := wc.workoutService.List(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list workouts", "error", err)
		workouts = nil
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":          "Mis entrenamientos",
		"User":           owner,
		"MultiUser":      wc.multiUser,
		"Flashes":        flashes,
		"Entrenamientos": workouts,
	})
}

// Add stores the submitted record and returns to the list.
func (wc *WorkoutController) Add(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.CurrentUser(c)

	var req models.AddWorkoutRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.WarnContext(ctx, "Unreadable add form", "error", err)
	}

	_, err := wc.workoutService.Add(ctx, owner, &req)
	switch {
	case errors.Is(err, service.ErrValidation):
		slog.InfoContext(ctx, "Rejected workout", "error", err)
		if err := wc.sessions.AddFlash(c.Writer, c.Request, MissingDataMessage); err != nil {
			slog.ErrorContext(ctx, "Failed to store flash message", "error", err)
		}
	case err != nil:
		slog.ErrorContext(ctx, "Failed to add workout", "error", err)
	}

	c.Redirect(http.StatusFound, "/")
}

// Delete removes the record named by the form's id and returns to the list.
func (wc *WorkoutController) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.DeleteWorkoutRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.WarnContext(ctx, "Unreadable delete form", "error", err)
	}

	id, err := parseID(req.ID)
	if err != nil {
		slog.InfoContext(ctx, "Ignoring delete with bad id", "id", req.ID)
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := wc.workoutService.Delete(ctx, middleware.CurrentUser(c), id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete workout", "workout.id", id, "error", err)
	}

	c.Redirect(http.StatusFound, "/")
}

// APIList returns the caller's records.
func (wc *WorkoutController) APIList(c *gin.Context) {
	ctx := c.Request.Context()

	workouts, err := wc.workoutService.List(ctx, middleware.CurrentUser(c))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list workouts", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.SuccessResponseList(c, workouts)
}

// APICreate stores a record sent as JSON.
func (wc *WorkoutController) APICreate(c *gin.Context) {
	ctx := c.Request.Context()

	var payload models.CreateWorkoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	req := payload.ToRequest()
	workout, err := wc.workoutService.Add(ctx, middleware.CurrentUser(c), &req)
	if errors.Is(err, service.ErrValidation) {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to add workout", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.SuccessResponse(c, workout)
}

// APIDelete removes a record by path id. Unknown ids succeed.
func (wc *WorkoutController) APIDelete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return
	}

	if err := wc.workoutService.Delete(ctx, middleware.CurrentUser(c), id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete workout", "workout.id", id, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.SuccessResponse(c, gin.H{"id": id})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
