package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/handler"
	"github.com/noah-isme/lingua-go-api/internal/middleware"
	"github.com/noah-isme/lingua-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	LessonHandler     *handler.LessonHandler
	ProgressHandler   *handler.ProgressHandler
	LevelCheckHandler *handler.LevelCheckHandler
	AdminTaskHandler  *handler.AdminTaskHandler
	SeedHandler       *handler.SeedHandler
	JWTMiddleware     fiber.Handler
	HealthProbes      map[string]handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	v2 := app.Group("/api/v2")

	if deps.LessonHandler != nil {
		deps.LessonHandler.Register(v2.Group("/lessons", jwtMiddleware))
	}

	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(v2.Group("/progress", jwtMiddleware))
	}

	if deps.LevelCheckHandler != nil {
		limiter := middleware.RateLimit("level_check", cfg.LevelCheckRateLimit, time.Minute)
		deps.LevelCheckHandler.Register(v2.Group("/level-check", jwtMiddleware), limiter)
	}

	// Staff tooling. Seeding is guarded by its own token so it can run before any user exists.
	if deps.AdminTaskHandler != nil {
		deps.AdminTaskHandler.Register(v2.Group("/admin/lessons", jwtMiddleware, middleware.RequireStaff()))
	}

	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(v2.Group("/admin/seed"))
	}
}
