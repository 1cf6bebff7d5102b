package controller

import (
	"ctchen222/Workout-Log/internal/routine"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoutineController serves the routine document loaded at startup.
type RoutineController struct {
	routine *routine.Routine
}

func NewRoutineController(r *routine.Routine) *RoutineController {
	if r == nil {
		r = routine.Empty()
	}
	return &RoutineController{routine: r}
}

// Page renders the routine for the browser.
func (rc *RoutineController) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "rutina.html", gin.H{
		"Title":  "Rutina",
		"Rutina": rc.routine.Pretty(),
	})
}

// API returns the routine document verbatim.
func (rc *RoutineController) API(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", rc.routine.Raw())
}
