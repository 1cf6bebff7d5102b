package main

import (
	"context"
	"ctchen222/Workout-Log/internal/api/controller"
	"ctchen222/Workout-Log/internal/api/repository"
	"ctchen222/Workout-Log/internal/api/service"
	"ctchen222/Workout-Log/internal/config"
	"ctchen222/Workout-Log/internal/db"
	"ctchen222/Workout-Log/internal/routine"
	"ctchen222/Workout-Log/internal/server"
	"ctchen222/Workout-Log/internal/session"
	"ctchen222/Workout-Log/internal/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.InitOtel(ctx, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	if cfg.UsesDefaultSecrets() {
		slog.WarnContext(ctx, "Running with development secrets; set SESSION_SECRET and JWT_SECRET in production")
	}
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	DB, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer DB.Close()

	prepareDatabase(ctx, DB, dbMode(cfg))

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	sessionManager := session.NewManager(store)

	// Create repositories
	userRepo := repository.NewUserRepository(DB)
	workoutRepo := repository.NewWorkoutRepository(DB)

	// Create services
	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), cfg.JWTTTL)
	workoutService := service.NewWorkoutService(workoutRepo, cfg.OwnerScopedDelete)

	srv, err := server.NewServer(server.Deps{
		AuthService: authService,
		Sessions:    sessionManager,
		MultiUser:   cfg.MultiUser(),
		Auth:        controller.NewAuthController(authService, sessionManager),
		Workouts:    controller.NewWorkoutController(workoutService, sessionManager, cfg.MultiUser()),
		Routine:     controller.NewRoutineController(routine.Load(ctx, cfg.RoutinePath)),
		Health:      controller.NewHealthController(DB),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Engine(),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr, "mode", cfg.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

// prepareDatabase creates the schema and seeds the default users. Failures are
// logged and the server keeps running; requests touching a broken table fail
// on their own.
func prepareDatabase(ctx context.Context, DB *sqlx.DB, mode db.Mode) {
	if err := db.CreateSchema(ctx, DB, mode); err != nil {
		slog.ErrorContext(ctx, "Failed to create schema", "error", err)
	}
	if mode == db.SingleUser {
		return
	}
	if _, err := db.SeedUsers(ctx, DB); err != nil {
		slog.ErrorContext(ctx, "Failed to seed default users", "error", err)
	}
}

// newSessionStore returns the configured session backend and a function
// releasing its resources.
func newSessionStore(ctx context.Context, c *config.Config) (sessions.Store, func(), error) {
	secret := []byte(c.SessionSecret)

	if c.SessionBackend != config.SessionBackendRedis {
		return session.NewCookieStore(secret, c.SessionMaxAge), func() {}, nil
	}

	rdb, err := db.NewRedisClient(ctx, c.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			slog.Error("Error closing redis client", "error", err)
		}
	}
	return session.NewRedisStore(rdb, secret, c.SessionMaxAge), closeFn, nil
}
