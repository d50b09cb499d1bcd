package compliance

// Rule is one entry of the rule table. Every rule is evaluated on every
// call; a match emits one finding in the rule's tier.
type Rule struct {
	ID      string
	Tier    Tier
	Message string
	When    func(f facts) bool
}

var ruleTable = []Rule{
	// Red: legal exposure today.
	{
		ID: "red.no_tax_id", Tier: TierRed,
		Message: "No tax ID (NIF) after 6+ months in Portugal.",
		When:    func(f facts) bool { return f.isTaxResident && f.HasTaxID == No },
	},
	{
		ID: "red.no_activity", Tier: TierRed,
		Message: "Earning income without an opened activity registration.",
		When: func(f facts) bool {
			return f.ActivityOpened == No && f.EstimatedAnnualIncome != IncomeUnder10k
		},
	},
	{
		ID: "red.no_vat", Tier: TierRed,
		Message: "Income over the VAT exemption threshold without VAT registration.",
		When:    func(f facts) bool { return f.overVATThreshold && f.HasVATNumber == No },
	},
	{
		ID: "red.no_social_security", Tier: TierRed,
		Message: "Tax resident without social security (NISS) registration.",
		When:    func(f facts) bool { return f.isTaxResident && f.HasSocialSecurityNumber == No },
	},
	{
		ID: "red.no_fiscal_representative", Tier: TierRed,
		Message: "Non-resident earning Portuguese income without a fiscal representative.",
		When: func(f facts) bool {
			return f.isNonResident && f.HasFiscalRepresentative == No && f.EstimatedAnnualIncome != IncomeUnder10k
		},
	},

	// Yellow: uncertainty or approaching an obligation.
	{
		ID: "yellow.tax_id_unknown", Tier: TierYellow,
		Message: "Uncertain tax ID (NIF) status.",
		When:    func(f facts) bool { return f.HasTaxID == Unknown },
	},
	{
		ID: "yellow.activity_unknown", Tier: TierYellow,
		Message: "Uncertain activity registration status.",
		When:    func(f facts) bool { return f.ActivityOpened == Unknown },
	},
	{
		ID: "yellow.vat_threshold", Tier: TierYellow,
		Message: "Approaching the VAT exemption threshold.",
		When:    func(f facts) bool { return f.approachingVATThreshold && f.HasVATNumber != Yes },
	},
	{
		ID: "yellow.vat_unknown", Tier: TierYellow,
		Message: "Uncertain VAT registration status.",
		When:    func(f facts) bool { return f.HasVATNumber == Unknown },
	},
	{
		ID: "yellow.social_security_unknown", Tier: TierYellow,
		Message: "Uncertain social security (NISS) status.",
		When:    func(f facts) bool { return f.HasSocialSecurityNumber == Unknown },
	},
	{
		ID: "yellow.fiscal_representative_unknown", Tier: TierYellow,
		Message: "Verify your tax residency and whether you need a fiscal representative.",
		When:    func(f facts) bool { return f.isTaxResident && f.HasFiscalRepresentative == Unknown },
	},
	{
		ID: "yellow.visa_activity", Tier: TierYellow,
		Message: "Digital nomad visa holders may still need an activity registration.",
		When: func(f facts) bool {
			return f.ResidencyStatus == ResidencyDigitalNomadVisa && f.ActivityOpened == No
		},
	},

	// Green: confirmations.
	{
		ID: "green.tax_id", Tier: TierGreen,
		Message: "Tax ID (NIF) in place.",
		When:    func(f facts) bool { return f.HasTaxID == Yes },
	},
	{
		ID: "green.activity", Tier: TierGreen,
		Message: "Activity registration opened.",
		When:    func(f facts) bool { return f.ActivityOpened == Yes },
	},
	{
		ID: "green.vat", Tier: TierGreen,
		Message: "VAT situation in order.",
		When: func(f facts) bool {
			return f.HasVATNumber == Yes || f.EstimatedAnnualIncome == IncomeUnder10k
		},
	},
	{
		ID: "green.social_security", Tier: TierGreen,
		Message: "Social security (NISS) registration in place.",
		When:    func(f facts) bool { return f.HasSocialSecurityNumber == Yes },
	},
	{
		ID: "green.fiscal_representative", Tier: TierGreen,
		Message: "Fiscal representation requirements covered.",
		When:    func(f facts) bool { return !f.isNonResident || f.HasFiscalRepresentative == Yes },
	},
}

// RuleInfo describes a rule for listings; predicates are not exported.
type RuleInfo struct {
	ID             string `json:"id" yaml:"id"`
	Tier           Tier   `json:"tier" yaml:"tier"`
	Message        string `json:"message" yaml:"message"`
	Detail         string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Penalty        string `json:"penalty,omitempty" yaml:"penalty,omitempty"`
	LegalReference string `json:"legalReference,omitempty" yaml:"legalReference,omitempty"`
	Deadline       string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// Rules returns the rule table in evaluation order with catalog enrichment.
func Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(ruleTable))
	for _, r := range ruleTable {
		f := r.finding()
		out = append(out, RuleInfo{
			ID:             f.RuleID,
			Tier:           f.Tier,
			Message:        f.Message,
			Detail:         f.Detail,
			Penalty:        f.Penalty,
			LegalReference: f.LegalReference,
			Deadline:       f.Deadline,
		})
	}
	return out
}

func (r Rule) finding() Finding {
	f := Finding{RuleID: r.ID, Tier: r.Tier, Message: r.Message}
	if e, ok := catalog[r.ID]; ok {
		f.Detail = e.Detail
		f.Penalty = e.Penalty
		f.LegalReference = e.LegalReference
		f.Deadline = e.Deadline
	}
	return f
}

// evaluate runs the whole table and returns the matches split by tier.
// The returned slices are never nil.
func evaluate(f facts) (red, yellow, green []Finding) {
	red, yellow, green = []Finding{}, []Finding{}, []Finding{}
	for _, r := range ruleTable {
		if !r.When(f) {
			continue
		}
		switch r.Tier {
		case TierRed:
			red = append(red, r.finding())
		case TierYellow:
			yellow = append(yellow, r.finding())
		case TierGreen:
			green = append(green, r.finding())
		}
	}
	return red, yellow, green
}
