package handlers

import (
	"errors"
	"voxadmin/internal/app"
	"voxadmin/internal/handlers/middleware"
	"voxadmin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app)
	NewUserHandler(*app, api).Register()
	NewModelConfigHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without their message.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, types.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, types.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, types.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, types.ErrConflict):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		log.Er("request failed", err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
}
