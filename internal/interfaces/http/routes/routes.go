package routes

import (
	"github.com/PavaniTiago/compliance-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/interfaces/http/handlers"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies reúne o que as rotas precisam para serem montadas
type Dependencies struct {
	Compliance usecases.ComplianceUseCase
	Dashboard  usecases.DashboardUseCase
	JWTSecret  string
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ETag para respostas GET
	app.Use(etag.New())

	app.Get("/health", handlers.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h := handlers.NewHandlers(deps.Compliance, deps.Dashboard)
	groups := middleware.SetupRouteGroups(app, middleware.RequireAdmin(deps.JWTSecret))

	// Rotas públicas do formulário
	groups.Public.Get("/compliance/rules", h.Compliance.GetRules)
	groups.Public.Post("/compliance/checks", h.Compliance.CreateCheck)

	// Rotas administrativas
	groups.Admin.Post("/compliance/score", h.Compliance.ScoreAnswers)
	groups.Admin.Get("/compliance/checks", h.Compliance.ListChecks)
	groups.Admin.Get("/compliance/checks/:id", h.Compliance.GetCheck)
	groups.Admin.Get("/dashboard", h.Dashboard.GetDashboard)
}
