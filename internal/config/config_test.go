package config

import (
	"testing"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "LOG_LEVEL", "APP_ENV", "ALLOWED_ORIGINS",
		"SUPABASE_JWT_SECRET", "WEBHOOK_URLS", "WEBHOOK_TIMEOUT",
		"INSIGHTS_CACHE_TTL", "PHONE_DEFAULT_REGION", "LEAD_SCORE_PENALTIES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, defaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Empty(t, cfg.WebhookURLs)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 10*time.Minute, cfg.InsightsCacheTTL)
	assert.Equal(t, "PT", cfg.PhoneDefaultRegion)
	assert.Equal(t, compliance.LegacyPenaltyWeights, cfg.PenaltyWeights)
	assert.Error(t, cfg.RequireDatabase())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/compliance")
	t.Setenv("APP_ENV", "production")
	t.Setenv("WEBHOOK_URLS", " https://a.example/hook, ,https://b.example/hook ")
	t.Setenv("WEBHOOK_TIMEOUT", "3")
	t.Setenv("INSIGHTS_CACHE_TTL", "90s")
	t.Setenv("PHONE_DEFAULT_REGION", "es")
	t.Setenv("LEAD_SCORE_PENALTIES", "uniform")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.NoError(t, cfg.RequireDatabase())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example/hook", "https://b.example/hook"}, cfg.WebhookURLs)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 90*time.Second, cfg.InsightsCacheTTL)
	assert.Equal(t, "ES", cfg.PhoneDefaultRegion)
	assert.Equal(t, compliance.UniformPenaltyWeights, cfg.PenaltyWeights)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"WEBHOOK_TIMEOUT", "soon", "WEBHOOK_TIMEOUT"},
		{"WEBHOOK_TIMEOUT", "-2s", "must be positive"},
		{"INSIGHTS_CACHE_TTL", "0", "must be positive"},
		{"LEAD_SCORE_PENALTIES", "harsh", "LEAD_SCORE_PENALTIES"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
