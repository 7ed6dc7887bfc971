package server

import (
	"boilerplate/internal/handlers"
	"boilerplate/internal/services"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP server is built from.
type Deps struct {
	AuthService *services.AuthService
	Store       handlers.Pinger
	Logger      *zap.Logger
}

// New builds the Fiber app with all routes registered.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "boilerplate",
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/", handlers.HandleHello)
	app.Get("/health", handlers.NewHealthHandler(deps.Store).HandleHealth)

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewAuthHandler(deps.AuthService, deps.Logger).RegisterRoutes(api)

	return app
}
