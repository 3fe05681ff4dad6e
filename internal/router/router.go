package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classroom-go-api/internal/config"
	"github.com/noah-isme/classroom-go-api/internal/handler"
	"github.com/noah-isme/classroom-go-api/internal/middleware"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	RoleHandler       *handler.RoleHandler
	UserHandler       *handler.UserHandler
	ClassHandler      *handler.ClassHandler
	AssignmentHandler *handler.AssignmentHandler
	QuizHandler       *handler.QuizHandler
	DiscussionHandler *handler.DiscussionHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.RoleHandler != nil {
		deps.RoleHandler.Register(api.Group("/roles", jwtMiddleware, adminOnly))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", jwtMiddleware, adminOnly))
	}

	if deps.ClassHandler != nil {
		classes := api.Group("/classes", jwtMiddleware)
		deps.ClassHandler.RegisterJoin(classes.Group("", studentOnly))
		deps.ClassHandler.RegisterManage(classes.Group("", staff))
		deps.ClassHandler.Register(classes)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.RegisterManage(assignments.Group("", staff))
		deps.AssignmentHandler.RegisterSubmit(assignments.Group("", studentOnly))
		deps.AssignmentHandler.Register(assignments)

		submissions := api.Group("/submissions", jwtMiddleware, staff)
		deps.AssignmentHandler.RegisterGrading(submissions)
	}

	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware)
		deps.QuizHandler.RegisterManage(quizzes.Group("", staff))
		deps.QuizHandler.RegisterSubmit(quizzes.Group("", studentOnly))
		deps.QuizHandler.Register(quizzes)
	}

	if deps.DiscussionHandler != nil {
		discussions := api.Group("/discussions", jwtMiddleware)
		deps.DiscussionHandler.RegisterManage(discussions.Group("", staff))
		deps.DiscussionHandler.Register(discussions)
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", jwtMiddleware, adminOnly))
	}
}
