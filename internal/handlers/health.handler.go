package handlers

import (
	"context"
	"time"
	"voxadmin/internal/app"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness plus database reachability. An unreachable
// database yields 503 so load balancers stop routing to the instance.
func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status, database := "ok", "ok"
		code := fiber.StatusOK
		if err := app.Database.Ping(ctx); err != nil {
			status, database = "degraded", "unreachable"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": database,
			"cache":    app.Config.CacheEnabled(),
			"version":  app.Config.GeneralVersion,
			"service":  "voxadmin",
		})
	})
}
