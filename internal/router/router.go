package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/examgate-go-api/internal/config"
	"github.com/noah-isme/examgate-go-api/internal/handler"
	"github.com/noah-isme/examgate-go-api/internal/middleware"
	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ReleaseHandler *handler.ReleaseHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ReleaseHandler != nil {
		// Students are authenticated but never manage releases.
		releases := app.Group("/api/v2/releases", jwtMiddleware,
			middleware.RequireRole(models.RoleAdministrator, models.RoleInstitution, models.RoleTeacher))
		releases.Use("/bulk", middleware.RateLimit("release_bulk", cfg.BulkRateLimit, cfg.BulkRateWindow))
		deps.ReleaseHandler.Register(releases)
	}
}
