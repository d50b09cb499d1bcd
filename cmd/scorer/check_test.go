package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const highRiskYAML = `
workType: freelancer
monthsInPortugal: 12
residencyStatus: resident
hasNif: no
activityOpened: no
estimatedAnnualIncome: over_50k
hasVatNumber: no
hasNiss: no
hasFiscalRepresentative: yes
phoneProvided: true
marketingConsent: true
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheck_TextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(highRiskYAML), 0o600))

	out, err := run(t, "", "check", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PORTUGAL FREELANCER COMPLIANCE REPORT")
	assert.Contains(t, out, "CRITICAL ISSUES (4):")
	assert.NotContains(t, out, "Generated on")
}

func TestCheck_JSONFromStdin(t *testing.T) {
	in := `{"monthsInPortugal": 5, "residencyStatus": "resident", "estimatedAnnualIncome": "10k_25k"}`

	out, err := run(t, in, "check", "--format", "json")
	require.NoError(t, err)

	var report compliance.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 63, report.LeadQualityScore)
	assert.Len(t, report.Yellow, 5)

	out, err = run(t, in, "check", "--format", "json", "--uniform-penalties")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 45, report.LeadQualityScore)
}

func TestCheck_Markdown(t *testing.T) {
	out, err := run(t, highRiskYAML, "check", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## Critical issues (4)")
	assert.Contains(t, out, "`red.no_activity`")
	assert.Contains(t, out, "- **Urgency:** high")
}

func TestCheck_FailOnHigh(t *testing.T) {
	_, err := run(t, highRiskYAML, "check", "--fail-on-high")
	var ee *exitErr
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.code)

	_, err = run(t, "monthsInPortugal: 1\nresidencyStatus: citizen\nestimatedAnnualIncome: under_10k\n", "check", "--fail-on-high")
	assert.NoError(t, err)
}

func TestCheck_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"empty input", "", []string{"check"}},
		{"unknown field", "hasPassport: yes\n", []string{"check"}},
		{"bad tri-state", "hasNif: maybe\n", []string{"check"}},
		{"missing file", "", []string{"check", "-f", "/nonexistent/answers.yaml"}},
		{"bad format", highRiskYAML, []string{"check", "--format", "pdf"}},
		{"strict rejects out of range", "monthsInPortugal: 30\n", []string{"check", "--strict"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			var ee *exitErr
			require.True(t, errors.As(err, &ee), "%v", err)
			assert.Equal(t, 3, ee.code)
		})
	}
}

func TestCheck_OutOfRangeScoredWithoutStrict(t *testing.T) {
	out, err := run(t, "monthsInPortugal: 30\n", "check", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"urgencyLevel"`)
}

func TestRules(t *testing.T) {
	out, err := run(t, "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "red.no_tax_id")
	assert.Equal(t, 18, strings.Count(out, "\n"))

	out, err = run(t, "", "rules", "--format", "json")
	require.NoError(t, err)
	var rules []compliance.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	assert.Len(t, rules, 17)

	out, err = run(t, "", "rules", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: green.fiscal_representative")
}
