package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/cache"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InsightProvider fornece frases estatísticas anexadas ao relatório.
// Falhas nunca são propagadas: sem dados, sem insights.
type InsightProvider interface {
	Insights(ctx context.Context) []string
}

// StatsSource é o subconjunto do repositório usado para gerar insights
type StatsSource interface {
	Aggregates(ctx context.Context) (repositories.AggregateStats, error)
	RedRuleFrequencies(ctx context.Context, from, to time.Time) ([]entities.RuleFrequency, error)
}

const (
	insightsCacheKey = "insights"
	// Abaixo disso as estatísticas não são representativas
	minInsightSample = 20
)

// StatsInsights gera insights a partir das avaliações já registradas
type StatsInsights struct {
	source StatsSource
	cache  *cache.Cache[[]string]
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsInsights cria o provedor de insights com cache
func NewStatsInsights(source StatsSource, c *cache.Cache[[]string], ttl time.Duration) *StatsInsights {
	return &StatsInsights{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logging.L().Named("insights"),
	}
}

func (s *StatsInsights) Insights(ctx context.Context) []string {
	if lines, ok := s.cache.Get(insightsCacheKey); ok {
		observability.InsightsRequests.WithLabelValues("hit").Inc()
		return lines
	}

	var (
		stats repositories.AggregateStats
		freqs []entities.RuleFrequency
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.source.Aggregates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		freqs, err = s.source.RedRuleFrequencies(gctx, time.Time{}, time.Time{})
		return err
	})
	if err := g.Wait(); err != nil {
		observability.InsightsRequests.WithLabelValues("error").Inc()
		s.logger.Warn("insights unavailable", zap.Error(err))
		return nil
	}

	observability.InsightsRequests.WithLabelValues("miss").Inc()
	lines := BuildInsights(stats, freqs)
	s.cache.Set(insightsCacheKey, lines, s.ttl)
	return lines
}

// BuildInsights transforma as agregações em frases para o relatório
func BuildInsights(stats repositories.AggregateStats, freqs []entities.RuleFrequency) []string {
	if stats.Total < minInsightSample {
		return []string{}
	}

	lines := []string{
		fmt.Sprintf("%d%% of the %d freelancers who took this check were flagged as high urgency.",
			percent(stats.High, stats.Total), stats.Total),
	}

	if len(freqs) > 0 {
		if msg := ruleMessage(freqs[0].RuleID); msg != "" {
			lines = append(lines, fmt.Sprintf("The most common critical issue (%d%% of checks): %s",
				percent(freqs[0].Count, stats.Total), msg))
		}
	}

	lines = append(lines, fmt.Sprintf("On average people report %.1f warning(s) and %d%% overall compliance.",
		stats.AvgYellow, int(math.Round(stats.AvgCompliance))))

	return lines
}

func percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func ruleMessage(id string) string {
	for _, r := range compliance.Rules() {
		if r.ID == id {
			return r.Message
		}
	}
	return ""
}
