package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksScored conta as avaliações processadas por nível de urgência e origem
	ChecksScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_checks_scored_total",
			Help: "Total number of questionnaire answers scored",
		},
		[]string{"urgency", "source"},
	)

	// LeadQualityScore distribui os scores de qualidade de lead
	LeadQualityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compliance_lead_quality_score",
			Help:    "Distribution of computed lead quality scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	// WebhookDeliveries conta entregas de webhook por resultado
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_webhook_deliveries_total",
			Help: "Webhook delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	// InsightsRequests conta consultas de insights por resultado (hit, miss, error)
	InsightsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_insights_requests_total",
			Help: "Insight lookups by cache outcome",
		},
		[]string{"outcome"},
	)

	// HTTPRequestDuration mede a latência das rotas
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compliance_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
