package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/notifier"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/observability"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission é o envio do formulário de avaliação
type Submission struct {
	Email   string `validate:"required,email,max=254"`
	Phone   string `validate:"omitempty,max=32"`
	Answers compliance.QuestionnaireAnswers
	Utm     entities.UtmData
}

// SubmitResult contém a linha persistida e o relatório calculado
type SubmitResult struct {
	Check  *entities.ComplianceCheck
	Report compliance.Report
}

// Notifier dispara automações após o registro de uma avaliação
type Notifier interface {
	Go(payload notifier.Payload)
}

// ComplianceUseCase define as operações de avaliação de conformidade
type ComplianceUseCase interface {
	Preview(ctx context.Context, answers compliance.QuestionnaireAnswers) compliance.Report
	Submit(ctx context.Context, sub Submission) (*SubmitResult, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.ComplianceCheck, error)
	List(ctx context.Context, params repositories.ListParams) ([]entities.ComplianceCheck, int64, error)
}

type complianceUseCase struct {
	repo        repositories.ComplianceCheckRepository
	scorer      compliance.Scorer
	insights    InsightProvider
	notifier    Notifier
	phoneRegion string
	location    *time.Location
	validate    *validator.Validate
	now         func() time.Time
	logger      *zap.Logger
}

// ComplianceOptions agrupa as dependências opcionais do caso de uso
type ComplianceOptions struct {
	Weights     compliance.PenaltyWeights
	Insights    InsightProvider
	Notifier    Notifier
	PhoneRegion string
}

// NewComplianceUseCase cria uma nova instância de ComplianceUseCase
func NewComplianceUseCase(repo repositories.ComplianceCheckRepository, opts ComplianceOptions) ComplianceUseCase {
	region := opts.PhoneRegion
	if region == "" {
		region = "PT"
	}
	return &complianceUseCase{
		repo:        repo,
		scorer:      compliance.Scorer{Weights: opts.Weights},
		insights:    opts.Insights,
		notifier:    opts.Notifier,
		phoneRegion: region,
		location:    utils.GetLisbonLocation(),
		validate:    validator.New(),
		now:         time.Now,
		logger:      logging.L().Named("compliance"),
	}
}

// Preview calcula o relatório sem persistir nem notificar
func (uc *complianceUseCase) Preview(ctx context.Context, answers compliance.QuestionnaireAnswers) compliance.Report {
	report := uc.score(answers, uc.fetchInsights(ctx))
	observability.ChecksScored.WithLabelValues(string(report.Urgency), "preview").Inc()
	return report
}

// Submit valida, calcula, persiste e dispara a notificação em segundo plano
func (uc *complianceUseCase) Submit(ctx context.Context, sub Submission) (*SubmitResult, error) {
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	if err := uc.validateSubmission(sub); err != nil {
		return nil, err
	}

	phone, valid := utils.NormalizePhone(sub.Phone, uc.phoneRegion)
	if phone != "" && !valid {
		uc.logger.Debug("phone kept unnormalized", zap.String("email", logging.MaskEmail(sub.Email)))
	}
	sub.Answers.ContactChannelsProvided = phone != ""

	report := uc.score(sub.Answers, uc.fetchInsights(ctx))

	check, err := entities.NewComplianceCheck(sub.Email, phone, sub.Answers, report, sub.Utm, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, check); err != nil {
		return nil, err
	}

	observability.ChecksScored.WithLabelValues(string(report.Urgency), "submission").Inc()
	observability.LeadQualityScore.Observe(float64(report.LeadQualityScore))

	if uc.notifier != nil {
		uc.notifier.Go(notifier.NewPayload(check, report))
	}

	uc.logger.Info("compliance check stored",
		zap.String("id", check.ID.String()),
		zap.String("email", logging.MaskEmail(check.Email)),
		zap.String("urgency", string(report.Urgency)),
		zap.Int("lead_quality_score", report.LeadQualityScore),
		zap.Int("red", len(report.Red)),
		zap.Int("yellow", len(report.Yellow)))

	return &SubmitResult{Check: check, Report: report}, nil
}

func (uc *complianceUseCase) Get(ctx context.Context, id uuid.UUID) (*entities.ComplianceCheck, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *complianceUseCase) List(ctx context.Context, params repositories.ListParams) ([]entities.ComplianceCheck, int64, error) {
	if params.Urgency != "" && !compliance.Urgency(params.Urgency).Valid() {
		return nil, 0, &compliance.ValidationError{Fields: []string{fmt.Sprintf("urgency: invalid value %q", params.Urgency)}}
	}
	return uc.repo.List(ctx, params)
}

func (uc *complianceUseCase) score(answers compliance.QuestionnaireAnswers, insights []string) compliance.Report {
	sc := uc.scorer
	sc.Render = compliance.RenderOptions{GeneratedAt: uc.now(), Location: uc.location}
	return sc.Score(answers, insights)
}

func (uc *complianceUseCase) fetchInsights(ctx context.Context) []string {
	if uc.insights == nil {
		return nil
	}
	return uc.insights.Insights(ctx)
}

// validateSubmission junta os erros do formulário e das respostas num único ValidationError
func (uc *complianceUseCase) validateSubmission(sub Submission) error {
	var fields []string

	if err := uc.validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("erro ao validar envio: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}

	if err := sub.Answers.Validate(); err != nil {
		var verr *compliance.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		fields = append(fields, verr.Fields...)
	}

	if len(fields) > 0 {
		return &compliance.ValidationError{Fields: fields}
	}
	return nil
}
