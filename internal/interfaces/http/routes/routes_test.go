package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-test-secret-routes-test-secret"

type memRepo struct {
	mu     sync.Mutex
	checks []*entities.ComplianceCheck
}

func (m *memRepo) Create(_ context.Context, c *entities.ComplianceCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, c)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ComplianceCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.checks {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repositories.ErrCheckNotFound
}

func (m *memRepo) List(context.Context, repositories.ListParams) ([]entities.ComplianceCheck, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entities.ComplianceCheck, 0, len(m.checks))
	for _, c := range m.checks {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) Summary(context.Context, time.Time, time.Time) (repositories.PeriodSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return repositories.PeriodSummary{Total: int64(len(m.checks))}, nil
}

func (m *memRepo) CountByDay(context.Context, time.Time, time.Time) ([]repositories.DayCount, error) {
	return nil, nil
}

func (m *memRepo) RedRuleFrequencies(context.Context, time.Time, time.Time) ([]entities.RuleFrequency, error) {
	return nil, nil
}

func (m *memRepo) Aggregates(context.Context) (repositories.AggregateStats, error) {
	return repositories.AggregateStats{}, nil
}

func newApp(t *testing.T) (*fiber.App, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	app := fiber.New()
	SetupRoutes(app, Dependencies{
		Compliance: usecases.NewComplianceUseCase(repo, usecases.ComplianceOptions{}),
		Dashboard:  usecases.NewDashboardUseCase(repo),
		JWTSecret:  secret,
	})
	return app, repo
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"role":         "authenticated",
		"app_metadata": map[string]interface{}{"role": "admin"},
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + s
}

func do(t *testing.T, app *fiber.App, method, path, body, auth string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

const submission = `{
	"email": "joana@example.pt",
	"phone": "912345678",
	"answers": {
		"workType": "freelancer",
		"monthsInPortugal": 12,
		"residencyStatus": "resident",
		"hasNif": true,
		"activityOpened": false,
		"estimatedAnnualIncome": "25k_50k",
		"hasVatNumber": "no",
		"hasNiss": true,
		"hasFiscalRepresentative": null
	},
	"utm": {"utm_source": "instagram"}
}`

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	resp, body := do(t, app, "GET", "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsExposed(t *testing.T) {
	app, _ := newApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRules(t *testing.T) {
	app, _ := newApp(t)
	resp, body := do(t, app, "GET", "/api/v1/compliance/rules", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["rules"], 17)
}

func TestCreateCheck(t *testing.T) {
	app, repo := newApp(t)

	resp, body := do(t, app, "POST", "/api/v1/compliance/checks", submission, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	require.Len(t, repo.checks, 1)

	report := body["report"].(map[string]interface{})
	assert.Equal(t, "high", report["urgencyLevel"])
	assert.Len(t, report["red"], 2)
	assert.Contains(t, report["report"], "PORTUGAL FREELANCER COMPLIANCE REPORT")
	assert.Equal(t, repo.checks[0].ID.String(), body["id"])
	assert.Equal(t, "+351912345678", repo.checks[0].Phone)
	assert.Equal(t, "instagram", repo.checks[0].UtmSource)
}

func TestCreateCheck_Invalid(t *testing.T) {
	app, repo := newApp(t)

	resp, body := do(t, app, "POST", "/api/v1/compliance/checks", `{"email":"x","answers":{"monthsInPortugal":40}}`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["error"])
	assert.NotEmpty(t, body["fields"])

	resp, _ = do(t, app, "POST", "/api/v1/compliance/checks", `{"email":`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/v1/compliance/checks", `{"email":"a@b.pt","answers":{"hasNif":"maybe"}}`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.checks)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app, _ := newApp(t)
	for _, path := range []string{"/api/v1/admin/compliance/checks", "/api/v1/admin/dashboard?from=2024-01-01&to=2024-01-07"} {
		resp, _ := do(t, app, "GET", path, "", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
	resp, _ := do(t, app, "POST", "/api/v1/admin/compliance/score", `{}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminScore(t *testing.T) {
	app, repo := newApp(t)

	resp, body := do(t, app, "POST", "/api/v1/admin/compliance/score",
		`{"monthsInPortugal":5,"residencyStatus":"resident","estimatedAnnualIncome":"10k_25k"}`, adminToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)

	report := body["report"].(map[string]interface{})
	assert.Equal(t, float64(63), report["leadQualityScore"])
	assert.Nil(t, body["warnings"])
	assert.Empty(t, repo.checks)

	resp, body = do(t, app, "POST", "/api/v1/admin/compliance/score", `{"monthsInPortugal":0}`, adminToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["warnings"])
}

func TestAdminListAndGet(t *testing.T) {
	app, repo := newApp(t)
	do(t, app, "POST", "/api/v1/compliance/checks", submission, "")
	require.Len(t, repo.checks, 1)

	resp, body := do(t, app, "GET", "/api/v1/admin/compliance/checks?page=1&limit=10", "", adminToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, false, meta["has_next_page"])

	resp, _ = do(t, app, "GET", "/api/v1/admin/compliance/checks?page=zero", "", adminToken(t))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/v1/admin/compliance/checks?urgency=urgent", "", adminToken(t))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	id := repo.checks[0].ID.String()
	resp, body = do(t, app, "GET", "/api/v1/admin/compliance/checks/"+id, "", adminToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["data"].(map[string]interface{})["id"])

	resp, _ = do(t, app, "GET", "/api/v1/admin/compliance/checks/"+uuid.NewString(), "", adminToken(t))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/v1/admin/compliance/checks/not-a-uuid", "", adminToken(t))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminDashboard(t *testing.T) {
	app, _ := newApp(t)

	resp, _ := do(t, app, "GET", "/api/v1/admin/dashboard", "", adminToken(t))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/v1/admin/dashboard?from=2024-01-07&to=2024-01-01", "", adminToken(t))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, "GET", "/api/v1/admin/dashboard?from=2024-01-01&to=2024-01-07", "", adminToken(t))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	assert.True(t, strings.HasPrefix(etag, `W/"`), etag)

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["chartData"], 7)
	assert.Equal(t, "semana anterior", data["previousPeriod"].(map[string]interface{})["label"])

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard?from=2024-01-01&to=2024-01-07", nil)
	req.Header.Set("Authorization", adminToken(t))
	req.Header.Set("If-None-Match", etag)
	cached, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotModified, cached.StatusCode)
}
