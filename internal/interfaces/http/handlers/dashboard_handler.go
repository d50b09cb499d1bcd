package handlers

import (
	"fmt"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler lida com requisições relacionadas ao dashboard
type DashboardHandler struct {
	dashboardUseCase usecases.DashboardUseCase
}

// NewDashboardHandler cria uma nova instância de DashboardHandler
func NewDashboardHandler(dashboardUseCase usecases.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
	}
}

// GetDashboard retorna o resumo das avaliações com comparação ao período anterior
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	startTime := time.Now()

	from, to, err := parsePeriod(c.Query("from"), c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Período anterior com o mesmo número de dias, imediatamente antes
	currentPeriod := usecases.DatePeriod{From: from, To: to}
	previousPeriod := currentPeriod.PreviousPeriod()

	result, err := h.dashboardUseCase.GetDashboard(c.UserContext(), currentPeriod, previousPeriod)
	if err != nil {
		return respondError(c, err)
	}

	etag := fmt.Sprintf(`W/"%s"`, result.ETag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderETag, etag)

	return c.JSON(fiber.Map{
		"data": result,
		"performance": fiber.Map{
			"execution_time_ms": time.Since(startTime).Milliseconds(),
		},
	})
}
