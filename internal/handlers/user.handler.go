package handlers

import (
	"voxadmin/internal/app"
	"voxadmin/internal/handlers/middleware"
	"voxadmin/internal/services"

	userController "voxadmin/internal/controllers/users"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	tokenService   *services.TokenService
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		tokenService:   app.Services.Token,
		userController: app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth(h.tokenService))
	users.Get("/me", h.getCurrentUser)
}

// getCurrentUser returns the caller's profile and default model per type
func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getCurrentUser")

	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	response, err := h.userController.GetCurrentUser(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(response)
}
