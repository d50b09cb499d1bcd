package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/compliance"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type checkFlags struct {
	file             string
	format           string
	uniformPenalties bool
	failOnHigh       bool
	strict           bool
}

func newCheckCmd() *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Score an answers file (YAML or JSON) and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.InOrStdin(), cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "-", "Answers file, - for stdin")
	flags.StringVar(&f.format, "format", "text", "Output format: text, json or markdown")
	flags.BoolVar(&f.uniformPenalties, "uniform-penalties", false, "Weigh every unknown answer equally in the lead score")
	flags.BoolVar(&f.failOnHigh, "fail-on-high", false, "Exit 2 when urgency is high")
	flags.BoolVar(&f.strict, "strict", false, "Reject answers outside the questionnaire domain")

	return cmd
}

func runCheck(stdin io.Reader, stdout io.Writer, f *checkFlags) error {
	answers, err := loadAnswers(stdin, f.file)
	if err != nil {
		return exitError(3, "failed to load answers: %v", err)
	}
	if f.strict {
		if err := answers.Validate(); err != nil {
			return exitError(3, "%v", err)
		}
	}

	weights := compliance.LegacyPenaltyWeights
	if f.uniformPenalties {
		weights = compliance.UniformPenaltyWeights
	}
	report := compliance.NewScorer(weights).Score(answers, nil)

	switch strings.ToLower(f.format) {
	case "text", "":
		_, err = io.WriteString(stdout, report.Narrative)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	case "markdown", "md":
		_, err = io.WriteString(stdout, renderMarkdown(report))
	default:
		return exitError(3, "unknown format %q", f.format)
	}
	if err != nil {
		return err
	}

	if f.failOnHigh && report.Urgency == compliance.UrgencyHigh {
		return &exitErr{code: 2}
	}
	return nil
}

func loadAnswers(stdin io.Reader, path string) (compliance.QuestionnaireAnswers, error) {
	var a compliance.QuestionnaireAnswers

	r := stdin
	if path != "-" && path != "" {
		file, err := os.Open(path)
		if err != nil {
			return a, err
		}
		defer file.Close()
		r = file
	}

	// YAML decoding also covers JSON input
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		if err == io.EOF {
			return a, fmt.Errorf("empty input")
		}
		return a, err
	}
	return a, nil
}

func renderMarkdown(r compliance.Report) string {
	var b strings.Builder
	b.WriteString("# Compliance report\n\n")
	fmt.Fprintf(&b, "- **Overall compliance:** %d%%\n", r.CompliancePercentage)
	fmt.Fprintf(&b, "- **Urgency:** %s\n", r.Urgency)
	fmt.Fprintf(&b, "- **Lead quality score:** %d\n\n", r.LeadQualityScore)

	sections := []struct {
		tier     compliance.Tier
		findings []compliance.Finding
	}{
		{compliance.TierRed, r.Red},
		{compliance.TierYellow, r.Yellow},
		{compliance.TierGreen, r.Green},
	}
	for _, s := range sections {
		if len(s.findings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", s.tier.Label(), len(s.findings))
		for _, f := range s.findings {
			fmt.Fprintf(&b, "- **%s** `%s`\n", f.Message, f.RuleID)
			if f.Penalty != "" {
				fmt.Fprintf(&b, "  - Possible penalty: %s\n", f.Penalty)
			}
			if f.LegalReference != "" {
				fmt.Fprintf(&b, "  - Legal basis: %s\n", f.LegalReference)
			}
			if f.Deadline != "" {
				fmt.Fprintf(&b, "  - Deadline: %s\n", f.Deadline)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_%s_\n", compliance.Disclaimer)
	return b.String()
}
