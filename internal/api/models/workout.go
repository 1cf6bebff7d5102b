package models

import "strconv"

// Workout represents one logged exercise session (a row of entrenamientos).
// UserID is nil when the application runs in single-user mode.
type Workout struct {
	ID           int64  `db:"id" json:"id"`
	Fecha        string `db:"fecha" json:"fecha"`
	Ejercicio    string `db:"tipo_ejercicio" json:"ejercicio"`
	Series       int    `db:"series" json:"series"`
	Repeticiones int    `db:"repeticiones" json:"repeticiones"`
	Peso         int    `db:"peso" json:"peso"`
	UserID       *int64 `db:"user_id" json:"user_id,omitempty"`
}

// AddWorkoutRequest carries the raw form values of a new record. The fields are
// kept as strings so a missing value can be told apart from a zero.
type AddWorkoutRequest struct {
	Fecha        string `form:"fecha" json:"fecha" validate:"required,ymd"`
	Ejercicio    string `form:"ejercicio" json:"ejercicio" validate:"required,max=255"`
	Series       string `form:"series" json:"series" validate:"required,numeric"`
	Repeticiones string `form:"repeticiones" json:"repeticiones" validate:"required,numeric"`
	Peso         string `form:"peso" json:"peso" validate:"required,numeric"`
}

// DeleteWorkoutRequest is the form posted to /eliminar.
type DeleteWorkoutRequest struct {
	ID string `form:"id"`
}

// CreateWorkoutPayload is the JSON body of POST /api/entrenamientos.
type CreateWorkoutPayload struct {
	Fecha        string `json:"fecha"`
	Ejercicio    string `json:"ejercicio"`
	Series       *int   `json:"series"`
	Repeticiones *int   `json:"repeticiones"`
	Peso         *int   `json:"peso"`
}

// ToRequest converts the payload to the form representation validated by the
// workout service. Absent numbers become empty strings and are rejected the
// same way a missing form field is.
func (p CreateWorkoutPayload) ToRequest() AddWorkoutRequest {
	return AddWorkoutRequest{
		Fecha:        p.Fecha,
		Ejercicio:    p.Ejercicio,
		Series:       intString(p.Series),
		Repeticiones: intString(p.Repeticiones),
		Peso:         intString(p.Peso),
	}
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
