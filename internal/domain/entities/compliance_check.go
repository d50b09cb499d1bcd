package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/google/uuid"
)

// ComplianceCheck representa uma avaliação de conformidade persistida
type ComplianceCheck struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	Email                string          `json:"email" gorm:"column:email;index"`
	Phone                string          `json:"phone,omitempty" gorm:"column:phone"`
	Answers              json.RawMessage `json:"answers" gorm:"column:answers;type:jsonb"`
	RedFlags             json.RawMessage `json:"red_flags" gorm:"column:red_flags;type:jsonb"`
	YellowFlags          json.RawMessage `json:"yellow_flags" gorm:"column:yellow_flags;type:jsonb"`
	GreenFlags           json.RawMessage `json:"green_flags" gorm:"column:green_flags;type:jsonb"`
	LeadQualityScore     int             `json:"lead_quality_score" gorm:"column:lead_quality_score"`
	UrgencyLevel         string          `json:"urgency_level" gorm:"column:urgency_level"`
	CompliancePercentage int             `json:"compliance_percentage" gorm:"column:compliance_percentage"`
	Report               string          `json:"report" gorm:"column:report;type:text"`
	MarketingConsent     bool            `json:"marketing_consent" gorm:"column:marketing_consent"`
	WorkType             string          `json:"work_type" gorm:"column:work_type"`
	ResidencyStatus      string          `json:"residency_status" gorm:"column:residency_status"`
	IncomeBracket        string          `json:"income_bracket" gorm:"column:income_bracket"`

	// Atribuição de campanha
	UtmSource   string `json:"utm_source,omitempty" gorm:"column:utm_source"`
	UtmMedium   string `json:"utm_medium,omitempty" gorm:"column:utm_medium"`
	UtmCampaign string `json:"utm_campaign,omitempty" gorm:"column:utm_campaign"`
	UtmContent  string `json:"utm_content,omitempty" gorm:"column:utm_content"`
	UtmTerm     string `json:"utm_term,omitempty" gorm:"column:utm_term"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName define o nome da tabela no banco
func (ComplianceCheck) TableName() string {
	return "compliance_checks"
}

// UtmData agrupa os parâmetros de campanha enviados pelo formulário
type UtmData struct {
	UtmSource   string `json:"utm_source"`
	UtmMedium   string `json:"utm_medium"`
	UtmCampaign string `json:"utm_campaign"`
	UtmContent  string `json:"utm_content"`
	UtmTerm     string `json:"utm_term"`
}

// NewComplianceCheck monta a linha a ser persistida a partir das respostas e do relatório
func NewComplianceCheck(email, phone string, answers compliance.QuestionnaireAnswers, report compliance.Report, utm UtmData, createdAt time.Time) (*ComplianceCheck, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar respostas: %w", err)
	}
	red, err := marshalFindings(report.Red)
	if err != nil {
		return nil, err
	}
	yellow, err := marshalFindings(report.Yellow)
	if err != nil {
		return nil, err
	}
	green, err := marshalFindings(report.Green)
	if err != nil {
		return nil, err
	}

	return &ComplianceCheck{
		ID:                   uuid.New(),
		Email:                email,
		Phone:                phone,
		Answers:              answersJSON,
		RedFlags:             red,
		YellowFlags:          yellow,
		GreenFlags:           green,
		LeadQualityScore:     report.LeadQualityScore,
		UrgencyLevel:         string(report.Urgency),
		CompliancePercentage: report.CompliancePercentage,
		Report:               report.Narrative,
		MarketingConsent:     answers.MarketingConsent,
		WorkType:             answers.WorkType,
		ResidencyStatus:      string(answers.ResidencyStatus),
		IncomeBracket:        string(answers.EstimatedAnnualIncome),
		UtmSource:            utm.UtmSource,
		UtmMedium:            utm.UtmMedium,
		UtmCampaign:          utm.UtmCampaign,
		UtmContent:           utm.UtmContent,
		UtmTerm:              utm.UtmTerm,
		CreatedAt:            createdAt,
	}, nil
}

func marshalFindings(findings []compliance.Finding) (json.RawMessage, error) {
	if findings == nil {
		findings = []compliance.Finding{}
	}
	b, err := json.Marshal(findings)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar findings: %w", err)
	}
	return b, nil
}

// Findings decodifica os findings armazenados para o tier informado
func (c *ComplianceCheck) Findings(tier compliance.Tier) ([]compliance.Finding, error) {
	var raw json.RawMessage
	switch tier {
	case compliance.TierRed:
		raw = c.RedFlags
	case compliance.TierYellow:
		raw = c.YellowFlags
	case compliance.TierGreen:
		raw = c.GreenFlags
	default:
		return nil, fmt.Errorf("tier inválido: %q", tier)
	}

	findings := []compliance.Finding{}
	if len(raw) == 0 {
		return findings, nil
	}
	if err := json.Unmarshal(raw, &findings); err != nil {
		return nil, fmt.Errorf("erro ao decodificar findings %s: %w", tier, err)
	}
	return findings, nil
}

// DecodeAnswers decodifica as respostas armazenadas
func (c *ComplianceCheck) DecodeAnswers() (compliance.QuestionnaireAnswers, error) {
	var a compliance.QuestionnaireAnswers
	if len(c.Answers) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(c.Answers, &a); err != nil {
		return a, fmt.Errorf("erro ao decodificar respostas: %w", err)
	}
	return a, nil
}
