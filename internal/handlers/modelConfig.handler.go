package handlers

import (
	"voxadmin/internal/app"
	"voxadmin/internal/handlers/middleware"
	"voxadmin/internal/models"
	"voxadmin/internal/services"

	modelConfigController "voxadmin/internal/controllers/modelConfig"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ModelConfigHandler struct {
	Handler
	tokenService          *services.TokenService
	modelConfigController modelConfigController.ModelConfigControllerInterface
}

func NewModelConfigHandler(app app.App, router fiber.Router) *ModelConfigHandler {
	log := logger.New("handlers").File("modelConfig_handler")
	return &ModelConfigHandler{
		tokenService:          app.Services.Token,
		modelConfigController: app.Controllers.ModelConfig,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ModelConfigHandler) Register() {
	modelsGroup := h.router.Group("/models", h.middleware.RequireAuth(h.tokenService))

	// Static prefixes first so they are not captured by /:id
	modelsGroup.Get("/list", h.list)
	modelsGroup.Put("/enable/:id/:status", h.setEnabled)
	modelsGroup.Put("/default/:id", h.setDefault)
	modelsGroup.Get("/default/:modelType", h.getDefault)
	modelsGroup.Delete("/default/:modelType", h.clearDefault)

	modelsGroup.Post("/:modelType", h.create)
	modelsGroup.Get("/:id", h.get)
	modelsGroup.Put("/:id", h.update)
	modelsGroup.Delete("/:id", h.delete)
}

func (h *ModelConfigHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	modelType, ok := models.ParseModelType(c.Query("modelType"))
	if !ok {
		return badRequest(c, "Invalid modelType")
	}

	configs, err := h.modelConfigController.List(c.UserContext(), user, modelType, c.Query("modelName"))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"configs": configs})
}

func (h *ModelConfigHandler) get(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("get")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	config, err := h.modelConfigController.Get(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(config)
}

func (h *ModelConfigHandler) create(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("create")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	modelType, ok := models.ParseModelType(c.Params("modelType"))
	if !ok {
		return badRequest(c, "Invalid modelType")
	}

	var req models.ModelConfigRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid request body", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	config, err := h.modelConfigController.Create(c.UserContext(), user, modelType, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(config)
}

func (h *ModelConfigHandler) update(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("update")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	var req models.ModelConfigRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid request body", "error", err.Error())
		return badRequest(c, "Invalid request body")
	}

	config, err := h.modelConfigController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(config)
}

func (h *ModelConfigHandler) delete(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("delete")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	if err := h.modelConfigController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ModelConfigHandler) setEnabled(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("setEnabled")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	var enabled bool
	switch c.Params("status") {
	case "1":
		enabled = true
	case "0":
		enabled = false
	default:
		return badRequest(c, "Invalid status")
	}

	if err := h.modelConfigController.SetEnabled(c.UserContext(), user, id, enabled); err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"id": id, "isEnabled": enabled})
}

func (h *ModelConfigHandler) setDefault(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("setDefault")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid id")
	}

	response, err := h.modelConfigController.SetDefaultModel(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(response)
}

func (h *ModelConfigHandler) getDefault(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getDefault")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	modelType, ok := models.ParseModelType(c.Params("modelType"))
	if !ok {
		return badRequest(c, "Invalid modelType")
	}

	response, err := h.modelConfigController.GetDefaultModel(c.UserContext(), user, modelType)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(response)
}

func (h *ModelConfigHandler) clearDefault(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("clearDefault")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	modelType, ok := models.ParseModelType(c.Params("modelType"))
	if !ok {
		return badRequest(c, "Invalid modelType")
	}

	if err := h.modelConfigController.ClearDefaultModel(c.UserContext(), user, modelType); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
