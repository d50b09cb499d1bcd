package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/notifier"
	"github.com/google/uuid"
)

type fakeRepo struct {
	mu      sync.Mutex
	checks  map[uuid.UUID]*entities.ComplianceCheck
	created []*entities.ComplianceCheck
	err     error

	lastList repositories.ListParams

	summaries map[string]repositories.PeriodSummary
	days      []repositories.DayCount
	freqs     []entities.RuleFrequency
	stats     repositories.AggregateStats
	statsErr  error
	statCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		checks:    map[uuid.UUID]*entities.ComplianceCheck{},
		summaries: map[string]repositories.PeriodSummary{},
	}
}

func (f *fakeRepo) Create(_ context.Context, c *entities.ComplianceCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.checks[c.ID] = c
	f.created = append(f.created, c)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ComplianceCheck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.checks[id]
	if !ok {
		return nil, repositories.ErrCheckNotFound
	}
	return c, nil
}

func (f *fakeRepo) List(_ context.Context, p repositories.ListParams) ([]entities.ComplianceCheck, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = p
	out := []entities.ComplianceCheck{}
	for _, c := range f.created {
		if p.Urgency == "" || c.UrgencyLevel == p.Urgency {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Summary(_ context.Context, from, _ time.Time) (repositories.PeriodSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaries[from.Format("2006-01-02")], f.statsErr
}

func (f *fakeRepo) CountByDay(context.Context, time.Time, time.Time) ([]repositories.DayCount, error) {
	return f.days, nil
}

func (f *fakeRepo) RedRuleFrequencies(context.Context, time.Time, time.Time) ([]entities.RuleFrequency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statCalls++
	return f.freqs, f.statsErr
}

func (f *fakeRepo) Aggregates(context.Context) (repositories.AggregateStats, error) {
	return f.stats, f.statsErr
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads []notifier.Payload
}

func (n *fakeNotifier) Go(p notifier.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
}

type staticInsights []string

func (s staticInsights) Insights(context.Context) []string { return s }
