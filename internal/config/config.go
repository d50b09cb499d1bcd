package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
)

// Config agrupa as configurações da aplicação lidas do ambiente
type Config struct {
	Port               string
	DatabaseURL        string
	LogLevel           string
	Environment        string
	AllowedOrigins     string
	JWTSecret          string
	WebhookURLs        []string
	WebhookTimeout     time.Duration
	InsightsCacheTTL   time.Duration
	PhoneDefaultRegion string
	PenaltyWeights     compliance.PenaltyWeights
}

const defaultAllowedOrigins = "http://localhost:3000"

// Load lê a configuração das variáveis de ambiente aplicando valores padrão
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getenv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		Environment:        getenv("APP_ENV", "development"),
		AllowedOrigins:     getenv("ALLOWED_ORIGINS", defaultAllowedOrigins),
		JWTSecret:          os.Getenv("SUPABASE_JWT_SECRET"),
		WebhookURLs:        splitList(os.Getenv("WEBHOOK_URLS")),
		PhoneDefaultRegion: strings.ToUpper(getenv("PHONE_DEFAULT_REGION", "PT")),
	}

	var err error
	if cfg.WebhookTimeout, err = getenvDuration("WEBHOOK_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.InsightsCacheTTL, err = getenvDuration("INSIGHTS_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PenaltyWeights, err = compliance.ParsePenaltyWeights(os.Getenv("LEAD_SCORE_PENALTIES")); err != nil {
		return nil, fmt.Errorf("LEAD_SCORE_PENALTIES: %w", err)
	}

	return cfg, nil
}

// RequireDatabase retorna erro quando DATABASE_URL não está definida
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not defined in the environment")
	}
	return nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	// Aceita segundos sem unidade
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%s must be positive, got %q", key, v)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
