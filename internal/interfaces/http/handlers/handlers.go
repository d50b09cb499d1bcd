package handlers

import (
	"github.com/PavaniTiago/compliance-intelligence-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

// Version é a versão exposta no health check
const Version = "1.0.0"

// Handlers agrupa os handlers da API
type Handlers struct {
	Compliance *ComplianceHandler
	Dashboard  *DashboardHandler
}

// NewHandlers cria os handlers a partir dos casos de uso
func NewHandlers(compliance usecases.ComplianceUseCase, dashboard usecases.DashboardUseCase) *Handlers {
	return &Handlers{
		Compliance: NewComplianceHandler(compliance),
		Dashboard:  NewDashboardHandler(dashboard),
	}
}

// Health responde o status da aplicação
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": Version,
	})
}
