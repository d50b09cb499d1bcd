package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/utils"
	"golang.org/x/sync/errgroup"
)

// DatePeriod representa um intervalo de datas inclusivo
type DatePeriod struct {
	From time.Time
	To   time.Time
}

// Days retorna o número de dias do período, contando os dois extremos
func (p DatePeriod) Days() int {
	return len(utils.GenerateDateRange(p.From, p.To))
}

// PreviousPeriod retorna o período imediatamente anterior com o mesmo número de dias
func (p DatePeriod) PreviousPeriod() DatePeriod {
	days := p.Days()
	to := p.From.AddDate(0, 0, -1)
	from := to.AddDate(0, 0, -(days - 1))
	return DatePeriod{From: from, To: to}
}

// DashboardStats é o subconjunto do repositório usado no dashboard
type DashboardStats interface {
	Summary(ctx context.Context, from, to time.Time) (repositories.PeriodSummary, error)
	CountByDay(ctx context.Context, from, to time.Time) ([]repositories.DayCount, error)
	RedRuleFrequencies(ctx context.Context, from, to time.Time) ([]entities.RuleFrequency, error)
}

// DashboardUseCase define a interface do dashboard de avaliações
type DashboardUseCase interface {
	GetDashboard(ctx context.Context, current, previous DatePeriod) (*entities.ComplianceDashboard, error)
}

type dashboardUseCase struct {
	stats DashboardStats
}

// NewDashboardUseCase cria uma nova instância de DashboardUseCase
func NewDashboardUseCase(stats DashboardStats) DashboardUseCase {
	return &dashboardUseCase{stats: stats}
}

// GetDashboard consulta em paralelo o período atual, o anterior, a série diária e as regras críticas
func (uc *dashboardUseCase) GetDashboard(ctx context.Context, current, previous DatePeriod) (*entities.ComplianceDashboard, error) {
	curFrom, curTo := utils.StartOfDay(current.From), utils.EndOfDay(current.To)
	prevFrom, prevTo := utils.StartOfDay(previous.From), utils.EndOfDay(previous.To)

	var (
		cur, prev repositories.PeriodSummary
		days      []repositories.DayCount
		rules     []entities.RuleFrequency
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cur, err = uc.stats.Summary(gctx, curFrom, curTo)
		if err != nil {
			return fmt.Errorf("erro ao obter resumo atual: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		prev, err = uc.stats.Summary(gctx, prevFrom, prevTo)
		if err != nil {
			return fmt.Errorf("erro ao obter resumo anterior: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		days, err = uc.stats.CountByDay(gctx, curFrom, curTo)
		return err
	})
	g.Go(func() (err error) {
		rules, err = uc.stats.RedRuleFrequencies(gctx, curFrom, curTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard := &entities.ComplianceDashboard{
		Summary: entities.DashboardSummary{
			Checks:           metric(cur.Total, prev.Total),
			HighUrgency:      metric(cur.High, prev.High),
			MediumUrgency:    metric(cur.Medium, prev.Medium),
			LowUrgency:       metric(cur.Low, prev.Low),
			MarketingConsent: metric(cur.Consent, prev.Consent),
			AvgLeadScore:     rate(cur.AvgLeadScore, prev.AvgLeadScore),
			AvgCompliance:    rate(cur.AvgCompliance, prev.AvgCompliance),
		},
		ChartData: buildChart(current, days),
		RedRules:  rules,
		PreviousPeriod: entities.DashboardPreviousPeriod{
			From:  previous.From.Format("2006-01-02"),
			To:    previous.To.Format("2006-01-02"),
			Label: entities.GetPeriodLabel(current.Days()),
		},
	}
	if dashboard.RedRules == nil {
		dashboard.RedRules = []entities.RuleFrequency{}
	}
	dashboard.CalculateETag()

	return dashboard, nil
}

func metric(current, previous int64) entities.DashboardMetric {
	return entities.DashboardMetric{
		Count:          current,
		PreviousPeriod: entities.NewMetricComparison(current, previous),
	}
}

func rate(current, previous float64) entities.DashboardRate {
	current = round2(current)
	previous = round2(previous)
	return entities.DashboardRate{
		Rate:           current,
		PreviousPeriod: entities.NewRateComparison(current, previous),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildChart preenche com zero os dias sem avaliações
func buildChart(period DatePeriod, days []repositories.DayCount) []entities.DashboardPeriodData {
	byDay := make(map[string]repositories.DayCount, len(days))
	for _, d := range days {
		byDay[d.Day] = d
	}

	dates := utils.GenerateDateRange(period.From, period.To)
	chart := make([]entities.DashboardPeriodData, 0, len(dates))
	for _, date := range dates {
		parsed, _ := time.Parse("2006-01-02", date)
		d := byDay[date]
		chart = append(chart, entities.DashboardPeriodData{
			Period:        date,
			DisplayPeriod: entities.FormatDisplayPeriod(parsed),
			Checks:        d.Checks,
			HighUrgency:   d.High,
		})
	}
	return chart
}
