package handlers

import (
	"voxadmin/internal/app"
	"voxadmin/internal/handlers/middleware"
	"voxadmin/internal/models"
	"voxadmin/internal/services"

	adminController "voxadmin/internal/controllers/admin"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	tokenService    *services.TokenService
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		tokenService:    app.Services.Token,
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(h.tokenService),
		h.middleware.RequireSuperAdmin(),
	)

	admin.Post("/users", h.createUser)
	admin.Delete("/users/:id", h.deleteUser)
	admin.Post("/users/:id/initialize", h.initializeConfigurations)
	admin.Put("/users/:id/default/:configId", h.setDefaultForUser)
}

// createUser creates the account, copies the template configurations and returns an access token
func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createUser")

	admin := middleware.GetUser(c)
	if admin == nil {
		return unauthorized(c)
	}

	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid request body", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	response, err := h.adminController.CreateUser(c.UserContext(), admin, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteUser")

	admin := middleware.GetUser(c)
	if admin == nil {
		return unauthorized(c)
	}

	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	if err := h.adminController.DeleteUser(c.UserContext(), admin, userID); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) initializeConfigurations(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("initializeConfigurations")

	admin := middleware.GetUser(c)
	if admin == nil {
		return unauthorized(c)
	}

	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	count, err := h.adminController.InitializeConfigurations(c.UserContext(), admin, userID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"userId": userID, "initializedConfigs": count})
}

func (h *AdminHandler) setDefaultForUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("setDefaultForUser")

	admin := middleware.GetUser(c)
	if admin == nil {
		return unauthorized(c)
	}

	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	configID, ok := parseUUIDParam(c, "configId")
	if !ok {
		return badRequest(c, "Invalid configId")
	}

	response, err := h.adminController.SetDefaultForUser(c.UserContext(), admin, userID, configID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(response)
}
