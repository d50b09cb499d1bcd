// Package compliance evaluates a Portuguese tax-situation questionnaire
// against a fixed rule set and produces a scored, tiered report.
package compliance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TriState is a yes/no/not-sure answer. The zero value is Unknown, so an
// omitted answer is never read as a negative one.
type TriState int8

const (
	Unknown TriState = iota
	Yes
	No
)

// Of converts a plain boolean answer.
func Of(b bool) TriState {
	if b {
		return Yes
	}
	return No
}

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

func (t TriState) Valid() bool {
	return t == Unknown || t == Yes || t == No
}

func parseTriState(s string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "sim":
		return Yes, nil
	case "false", "no", "nao", "não":
		return No, nil
	case "", "null", "unknown", "not_sure", "nao_sei", "~":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("invalid tri-state answer %q", s)
}

// MarshalJSON encodes Yes/No as booleans and Unknown as null.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := parseTriState(s)
		if err != nil {
			return err
		}
		*t = v
		return nil
	}
	v, err := parseTriState(string(data))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TriState) MarshalYAML() (interface{}, error) {
	switch t {
	case Yes:
		return true, nil
	case No:
		return false, nil
	default:
		return nil, nil
	}
}

func (t *TriState) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: tri-state answer must be a scalar", value.Line)
	}
	v, err := parseTriState(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = v
	return nil
}

// ResidencyStatus is the self-reported immigration/tax residency situation.
type ResidencyStatus string

const (
	ResidencyTourist          ResidencyStatus = "tourist"
	ResidencyDigitalNomadVisa ResidencyStatus = "digital_nomad_visa"
	ResidencyD7Visa           ResidencyStatus = "d7_visa"
	ResidencyD2Visa           ResidencyStatus = "d2_visa"
	ResidencyResident         ResidencyStatus = "resident"
	ResidencyNHR              ResidencyStatus = "nhr"
	ResidencyCitizen          ResidencyStatus = "citizen"
	ResidencyOther            ResidencyStatus = "other"
)

// ResidencyStatuses lists every accepted residency status.
var ResidencyStatuses = []ResidencyStatus{
	ResidencyTourist, ResidencyDigitalNomadVisa, ResidencyD7Visa, ResidencyD2Visa,
	ResidencyResident, ResidencyNHR, ResidencyCitizen, ResidencyOther,
}

func (r ResidencyStatus) Valid() bool {
	for _, s := range ResidencyStatuses {
		if r == s {
			return true
		}
	}
	return false
}

// IncomeBracket is an ordered estimate of yearly gross income in euros.
type IncomeBracket string

const (
	IncomeUnder10k IncomeBracket = "under_10k"
	Income10kTo25k IncomeBracket = "10k_25k"
	Income25kTo50k IncomeBracket = "25k_50k"
	IncomeOver50k  IncomeBracket = "over_50k"
)

// IncomeBrackets lists the brackets in ascending order.
var IncomeBrackets = []IncomeBracket{IncomeUnder10k, Income10kTo25k, Income25kTo50k, IncomeOver50k}

func (b IncomeBracket) Valid() bool {
	return b.rank() >= 0
}

func (b IncomeBracket) rank() int {
	for i, x := range IncomeBrackets {
		if b == x {
			return i
		}
	}
	return -1
}

// QuestionnaireAnswers is one person's answer set at submission time.
type QuestionnaireAnswers struct {
	WorkType                string          `json:"workType" yaml:"workType"`
	MonthsInPortugal        int             `json:"monthsInPortugal" yaml:"monthsInPortugal"`
	ResidencyStatus         ResidencyStatus `json:"residencyStatus" yaml:"residencyStatus"`
	HasTaxID                TriState        `json:"hasNif" yaml:"hasNif"`
	ActivityOpened          TriState        `json:"activityOpened" yaml:"activityOpened"`
	EstimatedAnnualIncome   IncomeBracket   `json:"estimatedAnnualIncome" yaml:"estimatedAnnualIncome"`
	HasVATNumber            TriState        `json:"hasVatNumber" yaml:"hasVatNumber"`
	HasSocialSecurityNumber TriState        `json:"hasNiss" yaml:"hasNiss"`
	HasFiscalRepresentative TriState        `json:"hasFiscalRepresentative" yaml:"hasFiscalRepresentative"`
	ContactChannelsProvided bool            `json:"phoneProvided" yaml:"phoneProvided"`
	MarketingConsent        bool            `json:"marketingConsent" yaml:"marketingConsent"`
}

// answerKeyAliases maps descriptive field names onto the form's keys.
var answerKeyAliases = map[string]string{
	"hasTaxId":                "hasNif",
	"hasSocialSecurityNumber": "hasNiss",
	"contactChannelsProvided": "phoneProvided",
}

var answerKeys = map[string]bool{
	"workType": true, "monthsInPortugal": true, "residencyStatus": true,
	"hasNif": true, "activityOpened": true, "estimatedAnnualIncome": true,
	"hasVatNumber": true, "hasNiss": true, "hasFiscalRepresentative": true,
	"phoneProvided": true, "marketingConsent": true,
}

// UnmarshalJSON accepts both the form keys (hasNif, hasNiss, phoneProvided)
// and their descriptive aliases. The alias wins when both are present.
func (a *QuestionnaireAnswers) UnmarshalJSON(data []byte) error {
	type plain QuestionnaireAnswers
	aux := struct {
		*plain
		HasTaxID                *TriState `json:"hasTaxId"`
		HasSocialSecurityNumber *TriState `json:"hasSocialSecurityNumber"`
		ContactChannelsProvided *bool     `json:"contactChannelsProvided"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.HasTaxID != nil {
		a.HasTaxID = *aux.HasTaxID
	}
	if aux.HasSocialSecurityNumber != nil {
		a.HasSocialSecurityNumber = *aux.HasSocialSecurityNumber
	}
	if aux.ContactChannelsProvided != nil {
		a.ContactChannelsProvided = *aux.ContactChannelsProvided
	}
	return nil
}

// UnmarshalYAML accepts the same aliases as UnmarshalJSON and rejects
// unknown keys. Giving both spellings of a field is a duplicate key.
func (a *QuestionnaireAnswers) UnmarshalYAML(value *yaml.Node) error {
	type plain QuestionnaireAnswers
	if value.Kind != yaml.MappingNode {
		return value.Decode((*plain)(a))
	}

	n := *value
	n.Content = make([]*yaml.Node, len(value.Content))
	copy(n.Content, value.Content)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if canonical, ok := answerKeyAliases[key.Value]; ok {
			renamed := *key
			renamed.Value = canonical
			n.Content[i] = &renamed
			continue
		}
		if !answerKeys[key.Value] {
			return fmt.Errorf("line %d: unknown answer field %q", key.Line, key.Value)
		}
	}
	return n.Decode((*plain)(a))
}

// ValidationError lists every out-of-domain field of an answer set.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid questionnaire answers: " + strings.Join(e.Fields, "; ")
}

// Validate checks the declared input domain. The scorer itself never calls
// it: out-of-range values simply match no rule.
func (a QuestionnaireAnswers) Validate() error {
	var fields []string
	if a.MonthsInPortugal < 1 || a.MonthsInPortugal > 12 {
		fields = append(fields, fmt.Sprintf("monthsInPortugal must be between 1 and 12, got %d", a.MonthsInPortugal))
	}
	if !a.ResidencyStatus.Valid() {
		fields = append(fields, fmt.Sprintf("residencyStatus %q is not recognised", a.ResidencyStatus))
	}
	if !a.EstimatedAnnualIncome.Valid() {
		fields = append(fields, fmt.Sprintf("estimatedAnnualIncome %q is not recognised", a.EstimatedAnnualIncome))
	}
	for name, v := range map[string]TriState{
		"hasNif":                  a.HasTaxID,
		"activityOpened":          a.ActivityOpened,
		"hasVatNumber":            a.HasVATNumber,
		"hasNiss":                 a.HasSocialSecurityNumber,
		"hasFiscalRepresentative": a.HasFiscalRepresentative,
	} {
		if !v.Valid() {
			fields = append(fields, fmt.Sprintf("%s has invalid value %d", name, v))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

// facts are the derived booleans every rule reads.
type facts struct {
	QuestionnaireAnswers
	isTaxResident           bool
	isNonResident           bool
	hasHighIncome           bool
	approachingVATThreshold bool
	overVATThreshold        bool
}

func derive(a QuestionnaireAnswers) facts {
	f := facts{QuestionnaireAnswers: a}
	f.isTaxResident = a.MonthsInPortugal >= 6
	f.isNonResident = a.ResidencyStatus == ResidencyTourist || a.ResidencyStatus == ResidencyDigitalNomadVisa
	f.hasHighIncome = a.EstimatedAnnualIncome == Income25kTo50k || a.EstimatedAnnualIncome == IncomeOver50k
	f.approachingVATThreshold = a.EstimatedAnnualIncome == Income10kTo25k
	f.overVATThreshold = f.hasHighIncome
	return f
}
