package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrCheckNotFound indica que a avaliação não existe
var ErrCheckNotFound = errors.New("compliance check not found")

// ListParams agrupa os filtros da listagem de avaliações
type ListParams struct {
	Page    int
	Limit   int
	OrderBy string
	Urgency string
	From    time.Time
	To      time.Time
}

// PeriodSummary contém os totais de um período
type PeriodSummary struct {
	Total         int64   `gorm:"column:total"`
	High          int64   `gorm:"column:high"`
	Medium        int64   `gorm:"column:medium"`
	Low           int64   `gorm:"column:low"`
	Consent       int64   `gorm:"column:consent"`
	AvgLeadScore  float64 `gorm:"column:avg_lead_score"`
	AvgCompliance float64 `gorm:"column:avg_compliance"`
}

// DayCount contém as contagens de um dia
type DayCount struct {
	Day    string `gorm:"column:day"`
	Checks int64  `gorm:"column:checks"`
	High   int64  `gorm:"column:high"`
}

// AggregateStats contém os totais históricos usados nos insights
type AggregateStats struct {
	Total         int64   `gorm:"column:total"`
	High          int64   `gorm:"column:high"`
	AvgYellow     float64 `gorm:"column:avg_yellow"`
	AvgCompliance float64 `gorm:"column:avg_compliance"`
}

// ComplianceCheckRepository define as operações de persistência das avaliações
type ComplianceCheckRepository interface {
	Create(ctx context.Context, check *entities.ComplianceCheck) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ComplianceCheck, error)
	List(ctx context.Context, params ListParams) ([]entities.ComplianceCheck, int64, error)
	Summary(ctx context.Context, from, to time.Time) (PeriodSummary, error)
	CountByDay(ctx context.Context, from, to time.Time) ([]DayCount, error)
	RedRuleFrequencies(ctx context.Context, from, to time.Time) ([]entities.RuleFrequency, error)
	Aggregates(ctx context.Context) (AggregateStats, error)
}

type complianceCheckRepository struct {
	db *gorm.DB
}

// NewComplianceCheckRepository cria uma nova instância do repositório
func NewComplianceCheckRepository(db *gorm.DB) ComplianceCheckRepository {
	return &complianceCheckRepository{db: db}
}

func (r *complianceCheckRepository) Create(ctx context.Context, check *entities.ComplianceCheck) error {
	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(check).Error; err != nil {
		return fmt.Errorf("erro ao salvar avaliação: %w", err)
	}
	return nil
}

func (r *complianceCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ComplianceCheck, error) {
	var check entities.ComplianceCheck
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&check).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCheckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar avaliação %s: %w", id, err)
	}
	return &check, nil
}

// List retorna as avaliações paginadas com filtros de urgência e período
func (r *complianceCheckRepository) List(ctx context.Context, params ListParams) ([]entities.ComplianceCheck, int64, error) {
	var checks []entities.ComplianceCheck
	var total int64

	page, limit := NormalizePage(params.Page, params.Limit)
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.ComplianceCheck{})
	if params.Urgency != "" {
		query = query.Where("urgency_level = ?", params.Urgency)
	}
	if !params.From.IsZero() && !params.To.IsZero() {
		query = query.Where("created_at BETWEEN ? AND ?", params.From.UTC(), params.To.UTC())
	}

	// Contagem separada antes da paginação
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("erro ao contar avaliações: %w", err)
	}

	if err := query.Order(params.OrderBy).Offset(offset).Limit(limit).Find(&checks).Error; err != nil {
		return nil, 0, fmt.Errorf("erro ao listar avaliações: %w", err)
	}

	return checks, total, nil
}

func (r *complianceCheckRepository) Summary(ctx context.Context, from, to time.Time) (PeriodSummary, error) {
	var s PeriodSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE urgency_level = 'high') AS high,
			COUNT(*) FILTER (WHERE urgency_level = 'medium') AS medium,
			COUNT(*) FILTER (WHERE urgency_level = 'low') AS low,
			COUNT(*) FILTER (WHERE marketing_consent) AS consent,
			COALESCE(AVG(lead_quality_score), 0) AS avg_lead_score,
			COALESCE(AVG(compliance_percentage), 0) AS avg_compliance
		FROM compliance_checks
		WHERE created_at BETWEEN ? AND ?`, from.UTC(), to.UTC()).Scan(&s).Error
	if err != nil {
		return s, fmt.Errorf("erro ao resumir período: %w", err)
	}
	return s, nil
}

// CountByDay agrupa as avaliações por dia no fuso de Lisboa
func (r *complianceCheckRepository) CountByDay(ctx context.Context, from, to time.Time) ([]DayCount, error) {
	var rows []DayCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(created_at AT TIME ZONE 'Europe/Lisbon', 'YYYY-MM-DD') AS day,
			COUNT(*) AS checks,
			COUNT(*) FILTER (WHERE urgency_level = 'high') AS high
		FROM compliance_checks
		WHERE created_at BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day`, from.UTC(), to.UTC()).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao contar avaliações por dia: %w", err)
	}
	return rows, nil
}

// RedRuleFrequencies conta quantas avaliações acionaram cada regra crítica.
// Datas zeradas consideram todo o histórico.
func (r *complianceCheckRepository) RedRuleFrequencies(ctx context.Context, from, to time.Time) ([]entities.RuleFrequency, error) {
	var rows []entities.RuleFrequency

	where := "TRUE"
	args := []interface{}{}
	if !from.IsZero() && !to.IsZero() {
		where = "c.created_at BETWEEN ? AND ?"
		args = append(args, from.UTC(), to.UTC())
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT f->>'ruleId' AS rule_id, COUNT(*) AS count
		FROM compliance_checks c
		CROSS JOIN LATERAL jsonb_array_elements(c.red_flags) AS f
		WHERE `+where+`
		GROUP BY rule_id
		ORDER BY count DESC, rule_id`, args...).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao contar regras críticas: %w", err)
	}
	return rows, nil
}

func (r *complianceCheckRepository) Aggregates(ctx context.Context) (AggregateStats, error) {
	var s AggregateStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE urgency_level = 'high') AS high,
			COALESCE(AVG(jsonb_array_length(yellow_flags)), 0) AS avg_yellow,
			COALESCE(AVG(compliance_percentage), 0) AS avg_compliance
		FROM compliance_checks`).Scan(&s).Error
	if err != nil {
		return s, fmt.Errorf("erro ao agregar avaliações: %w", err)
	}
	return s, nil
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// NormalizePage aplica os limites de paginação
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

var sortableColumns = map[string]string{
	"created_at":            "created_at",
	"createdAt":             "created_at",
	"lead_quality_score":    "lead_quality_score",
	"leadQualityScore":      "lead_quality_score",
	"compliance_percentage": "compliance_percentage",
	"urgency_level":         "urgency_level",
	"email":                 "email",
}

// BuildOrderBy monta a cláusula ORDER BY a partir de campos permitidos.
// Campos desconhecidos caem para created_at.
func BuildOrderBy(sortBy, sortDirection string) string {
	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortDirection, "asc") {
		dir = "ASC"
	}
	return column + " " + dir
}
