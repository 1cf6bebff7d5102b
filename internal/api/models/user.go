package models

// User represents a row of the users table.
// Password is stored and compared verbatim.
type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

// LoginRequest is the payload accepted by both the login form and the JSON API.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginResponse defines the structure for a successful API login response.
type LoginResponse struct {
	Token string `json:"token"`
}
