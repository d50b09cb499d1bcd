package middleware

import (
	"github.com/PavaniTiago/compliance-intelligence-api/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupMiddlewares registra os middlewares globais
func SetupMiddlewares(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.IsProduction(),
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match",
		AllowCredentials: cfg.AllowedOrigins != "*",
		MaxAge:           300, // 5 minutes
	}))

	app.Use(RequestLogger())
}

// RouteGroups define os grupos de rotas da API
type RouteGroups struct {
	Public fiber.Router
	Admin  fiber.Router
}

// SetupRouteGroups configura os grupos de rotas com seus respectivos middlewares
func SetupRouteGroups(app *fiber.App, authMiddleware fiber.Handler) RouteGroups {
	// Grupo público (sem autenticação)
	public := app.Group("/api/v1")

	// Grupo administrativo (com autenticação)
	admin := app.Group("/api/v1/admin", authMiddleware)

	return RouteGroups{
		Public: public,
		Admin:  admin,
	}
}
