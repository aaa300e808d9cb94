package server

import (
	"fmt"
	"time"
	"voxadmin/config"
	"voxadmin/internal/app"
	"voxadmin/internal/handlers"
	"voxadmin/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

// Model config documents are small; anything near this limit is a mistake.
const maxBodyBytes = 1 * 1024 * 1024

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server", "environment", app.Config.Environment)

	fiberApp := fiber.New(fiberConfig(app.Config))
	registerMiddleware(fiberApp, app)

	if err := handlers.Router(fiberApp, app); err != nil {
		return &AppServer{}, log.Err("failed to register routes", err)
	}

	return &AppServer{
		FiberApp: fiberApp,
		log:      logger.New("server"),
	}, nil
}

func fiberConfig(cfg config.Config) fiber.Config {
	development := cfg.Environment == "development"

	return fiber.Config{
		ServerHeader:          fmt.Sprintf("voxadmin/%s", cfg.GeneralVersion),
		AppName:               "voxadmin",
		BodyLimit:             maxBodyBytes,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: !development,
		EnablePrintRoutes:     development,
	}
}

// registerMiddleware installs the global chain. The trace id runs before the
// request logger so every access line carries it.
func registerMiddleware(fiberApp *fiber.App, app *app.App) {
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:  app.Config.CorsAllowOrigins,
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + middleware.TraceIDHeader,
		ExposeHeaders: middleware.TraceIDHeader,
		MaxAge:        300,
	}))

	fiberApp.Use(app.Middleware.TraceID())
	fiberApp.Use(fiberLogs.New(fiberLogs.Config{
		Format: "${time} | ${status} | ${latency} | ${method} | ${path} | ${respHeader:X-Trace-ID}\n",
	}))
	fiberApp.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// JSON only API: no framing, no embedding, no referrer leakage
	fiberApp.Use(helmet.New(helmet.Config{
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "no-referrer",
		CrossOriginResourcePolicy: "same-origin",
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none'",
	}))
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port <= 0 {
		return log.Error("invalid server port", "port", port)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
