package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/observability"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Payload é o corpo enviado para as automações externas
type Payload struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	LeadQualityScore     int       `json:"lead_quality_score"`
	UrgencyLevel         string    `json:"urgency_level"`
	CompliancePercentage int       `json:"compliance_percentage"`
	RedCount             int       `json:"red_count"`
	YellowCount          int       `json:"yellow_count"`
	GreenCount           int       `json:"green_count"`
	RedFlags             []string  `json:"red_flags"`
	YellowFlags          []string  `json:"yellow_flags"`
	GreenFlags           []string  `json:"green_flags"`
	MarketingConsent     bool      `json:"marketing_consent"`
	UtmSource            string    `json:"utm_source,omitempty"`
	UtmCampaign          string    `json:"utm_campaign,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewPayload monta o payload a partir da avaliação persistida e do relatório
func NewPayload(check *entities.ComplianceCheck, report compliance.Report) Payload {
	return Payload{
		ID:                   check.ID.String(),
		Email:                check.Email,
		Phone:                check.Phone,
		LeadQualityScore:     report.LeadQualityScore,
		UrgencyLevel:         string(report.Urgency),
		CompliancePercentage: report.CompliancePercentage,
		RedCount:             len(report.Red),
		YellowCount:          len(report.Yellow),
		GreenCount:           len(report.Green),
		RedFlags:             compliance.Messages(report.Red),
		YellowFlags:          compliance.Messages(report.Yellow),
		GreenFlags:           compliance.Messages(report.Green),
		MarketingConsent:     check.MarketingConsent,
		UtmSource:            check.UtmSource,
		UtmCampaign:          check.UtmCampaign,
		CreatedAt:            check.CreatedAt,
	}
}

// SendFunc entrega um corpo JSON para uma URL
type SendFunc func(ctx context.Context, url string, body []byte, timeout time.Duration) error

// WebhookNotifier envia as avaliações para os webhooks configurados
type WebhookNotifier struct {
	urls    []string
	timeout time.Duration
	send    SendFunc
	logger  *zap.Logger

	// base é cancelado quando Close desiste de esperar
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewWebhookNotifier cria um notificador para as URLs informadas
func NewWebhookNotifier(urls []string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	base, cancel := context.WithCancel(context.Background())
	return &WebhookNotifier{
		urls:    urls,
		timeout: timeout,
		send:    postJSON,
		logger:  logging.L().Named("notifier"),
		base:    base,
		cancel:  cancel,
	}
}

// WithSender troca a função de envio, usado em testes
func (n *WebhookNotifier) WithSender(send SendFunc) *WebhookNotifier {
	n.send = send
	return n
}

// Enabled indica se existe ao menos um webhook configurado
func (n *WebhookNotifier) Enabled() bool {
	return len(n.urls) > 0
}

// Dispatch envia o payload para todas as URLs e retorna o primeiro erro encontrado
func (n *WebhookNotifier) Dispatch(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar payload: %w", err)
	}

	var firstErr error
	for _, url := range n.urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.send(ctx, url, body, n.timeout); err != nil {
			observability.WebhookDeliveries.WithLabelValues("error").Inc()
			n.logger.Warn("webhook delivery failed",
				zap.String("url", url),
				zap.String("check_id", payload.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		observability.WebhookDeliveries.WithLabelValues("success").Inc()
	}
	return firstErr
}

// Go dispara o envio em segundo plano. Erros são apenas registrados.
// Após Close, novas chamadas são descartadas.
func (n *WebhookNotifier) Go(payload Payload) {
	if !n.Enabled() {
		return
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		observability.WebhookDeliveries.WithLabelValues("dropped").Inc()
		n.logger.Warn("notifier closed, dropping payload", zap.String("check_id", payload.ID))
		return
	}
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(n.base, n.timeout*time.Duration(len(n.urls)+1))
		defer cancel()
		_ = n.Dispatch(ctx, payload)
	}()
}

// Close aguarda os envios em andamento. Se ctx terminar antes, os envios
// pendentes são cancelados e o erro do contexto é retornado.
func (n *WebhookNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		n.cancel()
		return nil
	case <-ctx.Done():
		n.cancel()
		return fmt.Errorf("aguardando webhooks pendentes: %w", ctx.Err())
	}
}

// postJSON usa o cliente HTTP do Fiber para enviar o corpo.
// O timeout efetivo é o menor entre timeout e o prazo de ctx.
func postJSON(ctx context.Context, url string, body []byte, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	agent := fiber.Post(url)
	agent.Body(body).
		ContentType(fiber.MIMEApplicationJSON).
		Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("url de webhook inválida: %w", err)
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("erro ao enviar webhook: %w", errs[0])
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("webhook respondeu com status %d", code)
	}
	return nil
}
