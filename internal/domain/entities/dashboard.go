package entities

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// ComplianceDashboard representa a resposta consolidada do dashboard de avaliações
type ComplianceDashboard struct {
	Summary        DashboardSummary        `json:"summary"`
	ChartData      []DashboardPeriodData   `json:"chartData"`
	RedRules       []RuleFrequency         `json:"redRules"`
	PreviousPeriod DashboardPreviousPeriod `json:"previousPeriod"`
	ETag           string                  `json:"-"` // Campo interno para geração de ETag
}

// DashboardSummary contém as métricas principais do período
type DashboardSummary struct {
	Checks           DashboardMetric `json:"checks"`
	HighUrgency      DashboardMetric `json:"highUrgency"`
	MediumUrgency    DashboardMetric `json:"mediumUrgency"`
	LowUrgency       DashboardMetric `json:"lowUrgency"`
	MarketingConsent DashboardMetric `json:"marketingConsent"`
	AvgLeadScore     DashboardRate   `json:"avgLeadScore"`
	AvgCompliance    DashboardRate   `json:"avgCompliance"`
}

// DashboardMetric contém uma contagem com comparativo de período anterior
type DashboardMetric struct {
	Count          int64            `json:"count"`
	PreviousPeriod MetricComparison `json:"previousPeriod"`
}

// DashboardRate contém uma média com comparativo
type DashboardRate struct {
	Rate           float64        `json:"rate"`
	PreviousPeriod RateComparison `json:"previousPeriod"`
}

// MetricComparison contém dados de comparação entre períodos para contagens
type MetricComparison struct {
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
	IsPositive bool    `json:"isPositive"`
}

// RateComparison contém dados de comparação entre períodos para taxas
type RateComparison struct {
	Rate       float64 `json:"rate"`
	Percentage float64 `json:"percentage"`
	IsPositive bool    `json:"isPositive"`
}

// DashboardPeriodData contém dados de um único dia para gráficos
type DashboardPeriodData struct {
	Period        string `json:"period"`
	DisplayPeriod string `json:"displayPeriod"`
	Checks        int64  `json:"checks"`
	HighUrgency   int64  `json:"highUrgency"`
}

// RuleFrequency indica quantas avaliações acionaram uma regra
type RuleFrequency struct {
	RuleID string `json:"ruleId" gorm:"column:rule_id"`
	Count  int64  `json:"count" gorm:"column:count"`
}

// DashboardPreviousPeriod contém metadados sobre o período anterior
type DashboardPreviousPeriod struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// CalculateETag gera um hash único para identificar a versão dos dados
func (d *ComplianceDashboard) CalculateETag() string {
	data, _ := json.Marshal(d)
	hash := md5.Sum(data)
	d.ETag = fmt.Sprintf("%x", hash)
	return d.ETag
}

// NewMetricComparison compara a contagem atual com a anterior
func NewMetricComparison(current, previous int64) MetricComparison {
	return MetricComparison{
		Count:      previous,
		Percentage: PercentageChange(float64(current), float64(previous)),
		IsPositive: current >= previous,
	}
}

// NewRateComparison compara a taxa atual com a anterior
func NewRateComparison(current, previous float64) RateComparison {
	return RateComparison{
		Rate:       previous,
		Percentage: PercentageChange(current, previous),
		IsPositive: current >= previous,
	}
}

// PercentageChange calcula a variação percentual com duas casas decimais.
// Sem base anterior, qualquer valor atual conta como 100%.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	change := (current - previous) / previous * 100
	return float64(int64(change*100)) / 100
}

// GetPeriodLabel retorna a descrição textual do período comparativo
func GetPeriodLabel(days int) string {
	switch days {
	case 1:
		return "dia anterior"
	case 7:
		return "semana anterior"
	case 28, 29, 30, 31:
		return "mês anterior"
	case 365, 366:
		return "ano anterior"
	default:
		return "período anterior"
	}
}

// FormatDisplayPeriod formata uma data para exibição no gráfico
func FormatDisplayPeriod(date time.Time) string {
	return date.Format("02/01")
}
