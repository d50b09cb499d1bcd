package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ComplianceHandler lida com as requisições de avaliação de conformidade
type ComplianceHandler struct {
	useCase usecases.ComplianceUseCase
}

// NewComplianceHandler cria uma nova instância de ComplianceHandler
func NewComplianceHandler(useCase usecases.ComplianceUseCase) *ComplianceHandler {
	return &ComplianceHandler{useCase: useCase}
}

// submitRequest é o corpo enviado pelo formulário
type submitRequest struct {
	Email   string                          `json:"email"`
	Phone   string                          `json:"phone"`
	Answers compliance.QuestionnaireAnswers `json:"answers"`
	Utm     entities.UtmData                `json:"utm"`
}

// GetRules retorna o catálogo de regras
func (h *ComplianceHandler) GetRules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"rules": compliance.Rules()})
}

// CreateCheck recebe o formulário, calcula, persiste e notifica
func (h *ComplianceHandler) CreateCheck(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	result, err := h.useCase.Submit(c.UserContext(), usecases.Submission{
		Email:   req.Email,
		Phone:   req.Phone,
		Answers: req.Answers,
		Utm:     req.Utm,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        result.Check.ID,
		"createdAt": result.Check.CreatedAt,
		"report":    result.Report,
	})
}

// ScoreAnswers calcula o relatório sem persistir (uso administrativo)
func (h *ComplianceHandler) ScoreAnswers(c *fiber.Ctx) error {
	var answers compliance.QuestionnaireAnswers
	if err := c.BodyParser(&answers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	report := h.useCase.Preview(c.UserContext(), answers)

	resp := fiber.Map{"report": report}
	if err := answers.Validate(); err != nil {
		var verr *compliance.ValidationError
		if errors.As(err, &verr) {
			resp["warnings"] = verr.Fields
		}
	}
	return c.JSON(resp)
}

// ListChecks retorna as avaliações paginadas
func (h *ComplianceHandler) ListChecks(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid 'page' parameter"})
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid 'limit' parameter"})
	}
	page, limit = repositories.NormalizePage(page, limit)

	sortBy := c.Query("sortBy", "created_at")
	sortDirection := c.Query("sortDirection", "desc")

	from, to, err := parsePeriod(c.Query("from"), c.Query("to"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	checks, total, err := h.useCase.List(c.UserContext(), repositories.ListParams{
		Page:    page,
		Limit:   limit,
		OrderBy: repositories.BuildOrderBy(sortBy, sortDirection),
		Urgency: c.Query("urgency"),
		From:    from,
		To:      to,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": checks,
		"meta": createMetadata(page, limit, total),
	})
}

// GetCheck retorna uma avaliação pelo ID
func (h *ComplianceHandler) GetCheck(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid check id"})
	}

	check, err := h.useCase.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": check})
}

// respondError converte erros do domínio em respostas HTTP
func respondError(c *fiber.Ctx, err error) error {
	var verr *compliance.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, repositories.ErrCheckNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Compliance check not found"})
	default:
		logging.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// parsePeriod interpreta datas YYYY-MM-DD no fuso de Lisboa
func parsePeriod(fromStr, toStr string, required bool) (time.Time, time.Time, error) {
	if fromStr == "" && toStr == "" && !required {
		return time.Time{}, time.Time{}, nil
	}
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, errors.New("Os parâmetros 'from' e 'to' são obrigatórios")
	}

	loc := utils.GetLisbonLocation()
	from, err := time.ParseInLocation("2006-01-02", fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Formato de data inválido para 'from', use YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Formato de data inválido para 'to', use YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("'to' deve ser posterior a 'from'")
	}
	return utils.StartOfDay(from), utils.EndOfDay(to), nil
}

// createMetadata monta os metadados de paginação
func createMetadata(page, limit int, total int64) fiber.Map {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return fiber.Map{
		"page":          page,
		"limit":         limit,
		"total":         total,
		"total_pages":   totalPages,
		"has_next_page": int64(page) < totalPages,
	}
}
