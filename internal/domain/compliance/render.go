package compliance

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Disclaimer closes every narrative.
const Disclaimer = "Disclaimer: this report is an automated estimate based only on your answers. " +
	"It is not legal or tax advice. Confirm your situation with a certified accountant (contabilista certificado) " +
	"before acting on it."

// RenderOptions tune display-only parts of the narrative.
type RenderOptions struct {
	// GeneratedAt adds a date line when non-zero.
	GeneratedAt time.Time
	Location    *time.Location
}

// AverageWarnings is the comparison figure quoted in the narrative for a
// given warning count.
func AverageWarnings(yellowCount int) int {
	return int(math.Round(float64(yellowCount) * 1.2))
}

// RenderNarrative builds the human-readable report text.
func RenderNarrative(r Report, insights []string, opts RenderOptions) string {
	var b strings.Builder

	b.WriteString("PORTUGAL FREELANCER COMPLIANCE REPORT\n")
	if !opts.GeneratedAt.IsZero() {
		t := opts.GeneratedAt
		if opts.Location != nil {
			t = t.In(opts.Location)
		}
		fmt.Fprintf(&b, "Generated on %s\n", t.Format("2 January 2006"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Overall compliance: %d%%\n", r.CompliancePercentage)
	fmt.Fprintf(&b, "Urgency: %s\n\n", strings.ToUpper(string(r.Urgency)))

	renderTier(&b, TierRed, r.Red)
	renderTier(&b, TierYellow, r.Yellow)
	renderTier(&b, TierGreen, r.Green)

	fmt.Fprintf(&b, "Compared with other freelancers in a similar situation: you have %d warning(s); "+
		"people with similar profiles average %d.\n\n", len(r.Yellow), AverageWarnings(len(r.Yellow)))

	if len(insights) > 0 {
		b.WriteString("Insights from other users:\n")
		for _, line := range insights {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	b.WriteString(Disclaimer)
	b.WriteString("\n")
	return b.String()
}

func renderTier(b *strings.Builder, tier Tier, findings []Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", strings.ToUpper(tier.Label()), len(findings))
	for i, f := range findings {
		fmt.Fprintf(b, "%d. %s\n", i+1, f.Message)
		if f.Penalty != "" {
			fmt.Fprintf(b, "   Possible penalty: %s\n", f.Penalty)
		}
		if f.LegalReference != "" {
			fmt.Fprintf(b, "   Legal basis: %s\n", f.LegalReference)
		}
		if f.Deadline != "" {
			fmt.Fprintf(b, "   Deadline: %s\n", f.Deadline)
		}
	}
	b.WriteString("\n")
}
