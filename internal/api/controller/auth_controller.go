package controller

import (
	"ctchen222/Workout-Log/internal/api/models"
	"ctchen222/Workout-Log/internal/api/response"
	"ctchen222/Workout-Log/internal/api/service"
	"ctchen222/Workout-Log/internal/session"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvalidCredentialsMessage is the body of a rejected form login.
const InvalidCredentialsMessage = "Credenciales inválidas, intente nuevamente."

// AuthController handles login and logout for the browser and the JSON API.
type AuthController struct {
	authService service.AuthService
	sessions    *session.Manager
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService service.AuthService, sessions *session.Manager) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
	}
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Iniciar sesión",
	})
}

// Login checks the submitted form and opens a session on success.
func (ac *AuthController) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusUnauthorized, InvalidCredentialsMessage)
		return
	}

	user, err := ac.authService.Login(ctx, req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.String(http.StatusUnauthorized, InvalidCredentialsMessage)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Login failed", "error", err)
		c.String(http.StatusInternalServerError, "Error interno, intente nuevamente.")
		return
	}

	if err := ac.sessions.Login(c.Writer, c.Request, user); err != nil {
		slog.ErrorContext(ctx, "Failed to open session", "user.id", user.ID, "error", err)
		c.String(http.StatusInternalServerError, "Error interno, intente nuevamente.")
		return
	}

	slog.InfoContext(ctx, "User logged in", "user.id", user.ID, "username", user.Username)
	c.Redirect(http.StatusFound, "/")
}

// Logout ends the session and sends the browser back to the login form.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessions.Clear(c.Writer, c.Request); err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

// APILogin exchanges credentials for a bearer token.
func (ac *AuthController) APILogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.authService.Login(ctx, req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "API login failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := ac.authService.IssueToken(user)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to issue token", "user.id", user.ID, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.SuccessResponse(c, models.LoginResponse{Token: token})
}
