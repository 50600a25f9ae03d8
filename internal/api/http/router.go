package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/idea-portal/internal/api/http/handlers"
	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	StudentIdeas *handlers.StudentIdeasHandler
	StaffIdeas   *handlers.StaffIdeasHandler
	Pages        *handlers.PagesHandler
	Gate         *auth.Gate
	Edge         *auth.RouteMatcher
	Metrics      *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The edge matcher runs ahead of every page route;
// API routes are guarded by the access gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Edge.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	for _, role := range domain.Roles {
		authGroup.Post("/"+string(role)+"/register", cfg.Auth.Register(role))
		authGroup.Post("/"+string(role)+"/login", cfg.Auth.Login(role))
	}
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Gate.RequireAuthenticated(), cfg.Auth.Me)

	student := api.Group("/student", cfg.Gate.RequireRole(domain.RoleStudent))
	student.Post("/generate-idea", cfg.StudentIdeas.GenerateIdea)
	student.Post("/submit-idea", cfg.StudentIdeas.SubmitIdea)
	student.Get("/ideas", cfg.StudentIdeas.ListIdeas)

	staff := api.Group("/staff", cfg.Gate.RequireRole(domain.RoleStaff))
	staff.Get("/ideas", cfg.StaffIdeas.ListIdeas)
	staff.Post("/review-idea", cfg.StaffIdeas.ReviewIdea)
	staff.Get("/ideas/:id/feedback", cfg.StaffIdeas.ListFeedback)

	app.Get("/", cfg.Pages.Home)
	for _, role := range domain.Roles {
		area := "/" + string(role)
		app.Get(area+"/login", cfg.Pages.Login(role))
		app.Get(area+"/register", cfg.Pages.Register(role))
		app.Get(area+"/dashboard", cfg.Pages.Dashboard(role))
	}
}
