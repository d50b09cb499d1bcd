package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAnswers() compliance.QuestionnaireAnswers {
	return compliance.QuestionnaireAnswers{
		WorkType:                "freelancer",
		MonthsInPortugal:        5,
		ResidencyStatus:         compliance.ResidencyResident,
		HasTaxID:                compliance.Unknown,
		ActivityOpened:          compliance.Unknown,
		EstimatedAnnualIncome:   compliance.Income10kTo25k,
		HasVATNumber:            compliance.Unknown,
		HasSocialSecurityNumber: compliance.Unknown,
		HasFiscalRepresentative: compliance.Unknown,
	}
}

func newTestUseCase(repo *fakeRepo, n *fakeNotifier, insights InsightProvider) *complianceUseCase {
	opts := ComplianceOptions{
		Weights:  compliance.LegacyPenaltyWeights,
		Insights: insights,
	}
	// Um *fakeNotifier nil dentro da interface não é nil
	if n != nil {
		opts.Notifier = n
	}
	uc := NewComplianceUseCase(repo, opts).(*complianceUseCase)
	uc.now = func() time.Time { return time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC) }
	return uc
}

func TestSubmit_PersistsAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	n := &fakeNotifier{}
	uc := newTestUseCase(repo, n, staticInsights{"Most people forget the NISS."})

	res, err := uc.Submit(context.Background(), Submission{
		Email:   "  Maria@Example.PT ",
		Phone:   "912 345 678",
		Answers: validAnswers(),
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	check := repo.created[0]
	assert.Equal(t, "maria@example.pt", check.Email)
	assert.Equal(t, "+351912345678", check.Phone)
	assert.Equal(t, "medium", check.UrgencyLevel)

	// 50 + 5*5 + 15 - (1 + 1 + 10)
	assert.Len(t, res.Report.Yellow, 5)
	assert.Equal(t, 78, res.Report.LeadQualityScore)
	assert.Contains(t, res.Report.Narrative, "Generated on 3 July 2024")
	assert.Contains(t, res.Report.Narrative, "- Most people forget the NISS.")

	require.Len(t, n.payloads, 1)
	assert.Equal(t, check.ID.String(), n.payloads[0].ID)
	assert.Equal(t, 5, n.payloads[0].YellowCount)
}

func TestSubmit_WithoutNotifier(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, nil, nil)
	require.Nil(t, uc.notifier)

	res, err := uc.Submit(context.Background(), Submission{Email: "joao@example.pt", Answers: validAnswers()})
	require.NoError(t, err)
	assert.NotNil(t, res.Check)
	assert.Len(t, repo.created, 1)
}

func TestSubmit_NoPhoneMeansNoContactBonus(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, nil, nil)

	a := validAnswers()
	a.ContactChannelsProvided = true
	res, err := uc.Submit(context.Background(), Submission{Email: "a@b.pt", Answers: a})
	require.NoError(t, err)

	assert.Equal(t, 63, res.Report.LeadQualityScore)
	assert.Empty(t, res.Check.Phone)
}

func TestSubmit_UnparseablePhoneStillCounts(t *testing.T) {
	uc := newTestUseCase(newFakeRepo(), nil, nil)

	res, err := uc.Submit(context.Background(), Submission{Email: "a@b.pt", Phone: "ring me", Answers: validAnswers()})
	require.NoError(t, err)
	assert.Equal(t, "ring me", res.Check.Phone)
	assert.Equal(t, 78, res.Report.LeadQualityScore)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, nil, nil)

	a := validAnswers()
	a.MonthsInPortugal = 0
	_, err := uc.Submit(context.Background(), Submission{Email: "not-an-email", Answers: a})
	require.Error(t, err)

	var verr *compliance.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "monthsInPortugal")
	assert.Empty(t, repo.created)
}

func TestSubmit_RepositoryErrorSkipsNotification(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("db down")
	n := &fakeNotifier{}
	uc := newTestUseCase(repo, n, nil)

	_, err := uc.Submit(context.Background(), Submission{Email: "a@b.pt", Answers: validAnswers()})
	assert.EqualError(t, err, "db down")
	assert.Empty(t, n.payloads)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	repo := newFakeRepo()
	n := &fakeNotifier{}
	uc := newTestUseCase(repo, n, nil)

	a := validAnswers()
	a.ContactChannelsProvided = true
	report := uc.Preview(context.Background(), a)

	assert.Equal(t, 78, report.LeadQualityScore)
	assert.Equal(t, compliance.UrgencyMedium, report.Urgency)
	assert.Empty(t, repo.created)
	assert.Empty(t, n.payloads)
}

func TestPreview_UniformWeights(t *testing.T) {
	uc := NewComplianceUseCase(newFakeRepo(), ComplianceOptions{Weights: compliance.UniformPenaltyWeights})
	report := uc.Preview(context.Background(), validAnswers())
	assert.Equal(t, 45, report.LeadQualityScore)
}

func TestGetAndList(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, nil, nil)

	res, err := uc.Submit(context.Background(), Submission{Email: "a@b.pt", Answers: validAnswers()})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), res.Check.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Check.ID, got.ID)

	_, err = uc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repositories.ErrCheckNotFound)

	rows, total, err := uc.List(context.Background(), repositories.ListParams{Urgency: "medium"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	_, _, err = uc.List(context.Background(), repositories.ListParams{Urgency: "critical"})
	var verr *compliance.ValidationError
	assert.True(t, errors.As(err, &verr))
}
