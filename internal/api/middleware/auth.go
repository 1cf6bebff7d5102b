package middleware

import (
	"ctchen222/Workout-Log/internal/api/models"
	"ctchen222/Workout-Log/internal/api/response"
	"ctchen222/Workout-Log/internal/api/service"
	"ctchen222/Workout-Log/internal/session"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// CurrentUser returns the user authenticated by RequireSession or
// RequireToken, or nil on unguarded routes.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireSession lets the request through only when the browser session
// names a user that still exists. Anything else is redirected to LoginPath.
func RequireSession(sessions *session.Manager, auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, ok := sessions.UserID(c.Request)
		if !ok {
			redirectToLogin(c)
			return
		}

		user, err := auth.CurrentUser(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load session user", "user.id", id, "error", err)
			c.String(http.StatusInternalServerError, "Error interno, intente nuevamente.")
			c.Abort()
			return
		}
		if user == nil {
			slog.WarnContext(ctx, "Session references a missing user", "user.id", id)
			if err := sessions.Clear(c.Writer, c.Request); err != nil {
				slog.ErrorContext(ctx, "Failed to clear stale session", "error", err)
			}
			redirectToLogin(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireToken authenticates JSON API calls with a bearer token.
func RequireToken(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		user, err := auth.ParseToken(ctx, token)
		if err != nil {
			slog.InfoContext(ctx, "Rejected API token", "error", err)
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}
