package compliance

// Tier is the severity band of a finding.
type Tier string

const (
	TierRed    Tier = "red"
	TierYellow Tier = "yellow"
	TierGreen  Tier = "green"
)

func (t Tier) Valid() bool {
	switch t {
	case TierRed, TierYellow, TierGreen:
		return true
	}
	return false
}

// Label is the heading used when rendering a tier.
func (t Tier) Label() string {
	switch t {
	case TierRed:
		return "Critical issues"
	case TierYellow:
		return "Warnings"
	case TierGreen:
		return "Confirmed"
	}
	return string(t)
}

// Finding is one flagged condition. Findings are recomputed on every
// evaluation and carry no identity beyond the rule that produced them.
type Finding struct {
	RuleID         string `json:"ruleId" yaml:"ruleId"`
	Tier           Tier   `json:"tier" yaml:"tier"`
	Message        string `json:"message" yaml:"message"`
	Detail         string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Penalty        string `json:"penalty,omitempty" yaml:"penalty,omitempty"`
	LegalReference string `json:"legalReference,omitempty" yaml:"legalReference,omitempty"`
	Deadline       string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// Urgency classifies how soon a lead should be contacted.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// UrgencyFor derives urgency from the red and yellow finding counts.
func UrgencyFor(red, yellow int) Urgency {
	switch {
	case red >= 2:
		return UrgencyHigh
	case red == 1 || yellow >= 3:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Report is the full result of one evaluation.
type Report struct {
	Red                  []Finding `json:"red"`
	Yellow               []Finding `json:"yellow"`
	Green                []Finding `json:"green"`
	CompliancePercentage int       `json:"compliancePercentage"`
	LeadQualityScore     int       `json:"leadQualityScore"`
	Urgency              Urgency   `json:"urgencyLevel"`
	Narrative            string    `json:"report"`
}

// Total returns the number of findings across all tiers.
func (r Report) Total() int {
	return len(r.Red) + len(r.Yellow) + len(r.Green)
}

// Messages returns the plain messages of a tier, in rule order.
func Messages(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Message)
	}
	return out
}
