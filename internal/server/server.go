package server

import (
	"ctchen222/Workout-Log/internal/api/controller"
	"ctchen222/Workout-Log/internal/api/middleware"
	"ctchen222/Workout-Log/internal/api/service"
	"ctchen222/Workout-Log/internal/session"
	"ctchen222/Workout-Log/web"
	"fmt"

	"github.com/gin-gonic/gin"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	AuthService service.AuthService
	Sessions    *session.Manager
	MultiUser   bool

	Auth     *controller.AuthController
	Workouts *controller.WorkoutController
	Routine  *controller.RoutineController
	Health   *controller.HealthController
}

type Server struct {
	engine *gin.Engine
}

// NewServer builds the gin engine and registers the routes for the configured mode.
func NewServer(deps Deps) (*Server, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.RequestLogger(),
		gin.Recovery(),
	)
	engine.SetHTMLTemplate(tmpl)

	s := &Server{engine: engine}
	s.registerHandlers(deps)
	return s, nil
}

// Engine exposes the router as an http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(deps Deps) {
	r := s.engine

	r.GET("/healthz", deps.Health.Health)

	if !deps.MultiUser {
		s.registerPages(r.Group("/"), deps)
		s.registerAPI(r.Group("/api"), deps)
		return
	}

	r.GET("/login", deps.Auth.LoginPage)
	r.POST("/login", deps.Auth.Login)
	r.POST("/api/login", deps.Auth.APILogin)

	pages := r.Group("/", middleware.RequireSession(deps.Sessions, deps.AuthService))
	pages.GET("/logout", deps.Auth.Logout)
	s.registerPages(pages, deps)

	s.registerAPI(r.Group("/api", middleware.RequireToken(deps.AuthService)), deps)
}

func (s *Server) registerPages(g *gin.RouterGroup, deps Deps) {
	g.GET("/", deps.Workouts.Index)
	g.POST("/agregar", deps.Workouts.Add)
	g.POST("/eliminar", deps.Workouts.Delete)
	g.GET("/rutina", deps.Routine.Page)
}

func (s *Server) registerAPI(g *gin.RouterGroup, deps Deps) {
	g.GET("/entrenamientos", deps.Workouts.APIList)
	g.POST("/entrenamientos", deps.Workouts.APICreate)
	g.DELETE("/entrenamientos/:id", deps.Workouts.APIDelete)
	g.GET("/rutina", deps.Routine.API)
}
