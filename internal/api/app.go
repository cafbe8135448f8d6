package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type AppOptions struct {
	CORSOrigins    []string
	MaxUploadBytes int
	AccessLog      bool
}

// NewApp assembles the fiber application with middleware and routes.
func NewApp(handler *Handler, options AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Platelog",
		DisableStartupMessage: true,
		BodyLimit:             options.MaxUploadBytes,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	if options.AccessLog {
		app.Use(logger.New())
	}
	app.Use(compress.New())
	if len(options.CORSOrigins) > 0 {
		allowOrigins := strings.Join(options.CORSOrigins, ",")
		app.Use(cors.New(cors.Config{
			AllowOrigins: allowOrigins,
			AllowMethods: "GET,POST,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization",
			// fiber refuses credentials together with a wildcard origin.
			AllowCredentials: !strings.Contains(allowOrigins, "*"),
		}))
	}

	RegisterRoutes(app, handler)
	return app
}
