package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-survey-api/internal/config"
	"github.com/noah-isme/gema-survey-api/internal/handler"
	"github.com/noah-isme/gema-survey-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SurveyHandler    *handler.SurveyHandler
	AnalyticsHandler *handler.AnalyticsHandler
	SessionHandler   *handler.SessionHandler
	ImportHandler    *handler.ImportHandler
	AuthMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Import uses its own token and must not require a user session.
	if deps.ImportHandler != nil {
		deps.ImportHandler.Register(api.Group("/import"))
	}

	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	authenticated := api.Group("", authMiddleware)

	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(authenticated)
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(authenticated)
	}
	if deps.SurveyHandler != nil {
		deps.SurveyHandler.Register(authenticated)
	}
}
