package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/coursehub-api/internal/config"
	"github.com/noah-isme/coursehub-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	MaterialHandler   *handler.MaterialHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	ActivityHandler   *handler.ActivityHandler
	SeedHandler       *handler.SeedHandler
	AuthRateLimit     fiber.Handler
	Database          handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Database))

	if deps.AuthHandler != nil {
		rateLimit := deps.AuthRateLimit
		if rateLimit == nil {
			rateLimit = func(c *fiber.Ctx) error { return c.Next() }
		}
		deps.AuthHandler.Register(api.Group("/auth", rateLimit))
	}

	// Guards are mounted per route by each handler; public and admin
	// routes share prefixes below /courses.
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses"))
	}
	if deps.MaterialHandler != nil {
		deps.MaterialHandler.Register(api)
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/admin"))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}

	app.Use(handler.NotFound)
}
