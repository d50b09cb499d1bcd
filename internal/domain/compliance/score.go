package compliance

import (
	"fmt"
	"math"
	"strings"
)

// PenaltyWeights are subtracted from the lead score for each unknown
// answer among tax ID, activity and VAT.
type PenaltyWeights struct {
	TaxIDUnknown    int
	ActivityUnknown int
	VATUnknown      int
}

var (
	// LegacyPenaltyWeights reproduces the production arithmetic where the
	// ×10 factor only applied to the VAT term.
	LegacyPenaltyWeights = PenaltyWeights{TaxIDUnknown: 1, ActivityUnknown: 1, VATUnknown: 10}
	// UniformPenaltyWeights weighs every unknown answer equally.
	UniformPenaltyWeights = PenaltyWeights{TaxIDUnknown: 10, ActivityUnknown: 10, VATUnknown: 10}
)

// ParsePenaltyWeights maps a config value ("legacy" or "uniform").
func ParsePenaltyWeights(name string) (PenaltyWeights, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy":
		return LegacyPenaltyWeights, nil
	case "uniform", "symmetric":
		return UniformPenaltyWeights, nil
	}
	return PenaltyWeights{}, fmt.Errorf("unknown lead score penalty mode %q", name)
}

const (
	minLeadScore = 1
	maxLeadScore = 100
)

// LeadQualityScore estimates how valuable a lead is for follow-up. It is a
// sales heuristic, not a compliance measure.
func LeadQualityScore(a QuestionnaireAnswers, redCount, yellowCount int, w PenaltyWeights) int {
	f := derive(a)
	score := 50 + 10*redCount + 5*yellowCount
	if a.ContactChannelsProvided {
		score += 15
	}
	if a.MarketingConsent {
		score += 10
	}
	if f.hasHighIncome {
		score += 5
	}
	if a.HasTaxID == Unknown {
		score -= w.TaxIDUnknown
	}
	if a.ActivityOpened == Unknown {
		score -= w.ActivityUnknown
	}
	if a.HasVATNumber == Unknown {
		score -= w.VATUnknown
	}
	return clamp(score, minLeadScore, maxLeadScore)
}

// CompliancePercentage is the share of green findings, 0 when there are none.
func CompliancePercentage(red, yellow, green int) int {
	total := red + yellow + green
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(green) / float64(total) * 100))
	return clamp(pct, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scorer evaluates answer sets. The zero value uses LegacyPenaltyWeights.
// A Scorer holds no mutable state and is safe for concurrent use.
type Scorer struct {
	Weights PenaltyWeights
	Render  RenderOptions
}

// NewScorer returns a scorer with the given penalty weights.
func NewScorer(w PenaltyWeights) *Scorer {
	return &Scorer{Weights: w}
}

func (s *Scorer) weights() PenaltyWeights {
	if s == nil || s.Weights == (PenaltyWeights{}) {
		return LegacyPenaltyWeights
	}
	return s.Weights
}

// Score evaluates every rule against a and builds the report. Insights are
// appended verbatim to the narrative. Score never fails.
func (s *Scorer) Score(a QuestionnaireAnswers, insights []string) Report {
	red, yellow, green := evaluate(derive(a))

	r := Report{
		Red:                  red,
		Yellow:               yellow,
		Green:                green,
		CompliancePercentage: CompliancePercentage(len(red), len(yellow), len(green)),
		LeadQualityScore:     LeadQualityScore(a, len(red), len(yellow), s.weights()),
		Urgency:              UrgencyFor(len(red), len(yellow)),
	}
	var opts RenderOptions
	if s != nil {
		opts = s.Render
	}
	r.Narrative = RenderNarrative(r, insights, opts)
	return r
}

var defaultScorer = &Scorer{Weights: LegacyPenaltyWeights}

// Evaluate scores a with the default scorer and no insights.
func Evaluate(a QuestionnaireAnswers) Report {
	return defaultScorer.Score(a, nil)
}
