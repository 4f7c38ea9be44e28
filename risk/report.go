package risk

import (
	"maps"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/market"
)

type Status string

const (
	StatusInvalid  Status = "invalid"
	StatusWarnings Status = "warnings"
	StatusValid    Status = "valid"
)

// TierSummary echoes the rules a report was graded against.
type TierSummary struct {
	FirmName         string                    `json:"firmName"`
	AccountSize      int                       `json:"accountSize"`
	ProfitTarget     float64                   `json:"profitTarget"`
	DailyLossLimit   *float64                  `json:"dailyLossLimit"`
	MaxDrawdown      float64                   `json:"maxDrawdown"`
	DrawdownType     firms.DrawdownType        `json:"drawdownType"`
	MaxContracts     map[market.Instrument]int `json:"maxContracts"`
	ConsistencyRule  float64                   `json:"consistencyRule"`
	AutomationPolicy firms.AutomationPolicy    `json:"automationPolicy"`
	RulesVersion     string                    `json:"rulesVersion,omitempty"`
}

// Report is the compliance verdict for one strategy on one account tier.
type Report struct {
	IsValid   bool        `json:"isValid"`
	Status    Status      `json:"status"`
	Warnings  []Warning   `json:"warnings"`
	FirmRules TierSummary `json:"firmRules"`
}

// BuildReport aggregates warnings into a verdict. Any error makes the
// report invalid; otherwise any warning gives StatusWarnings.
func BuildReport(b *firms.Bundle, accountSize int, tier firms.Tier, warnings []Warning) *Report {
	if warnings == nil {
		warnings = []Warning{}
	}

	r := &Report{
		IsValid:  true,
		Status:   StatusValid,
		Warnings: warnings,
		FirmRules: TierSummary{
			FirmName:         b.Name,
			AccountSize:      accountSize,
			ProfitTarget:     tier.ProfitTarget,
			MaxDrawdown:      tier.MaxDrawdown,
			DrawdownType:     tier.DrawdownType,
			MaxContracts:     maps.Clone(tier.MaxContracts),
			ConsistencyRule:  tier.ConsistencyRule,
			AutomationPolicy: b.AutomationPolicy,
			RulesVersion:     b.Version,
		},
	}
	if tier.DailyLossLimit != nil {
		v := *tier.DailyLossLimit
		r.FirmRules.DailyLossLimit = &v
	}

	for _, w := range warnings {
		switch w.Severity {
		case SeverityError:
			r.IsValid = false
			r.Status = StatusInvalid
		case SeverityWarning:
			if r.Status == StatusValid {
				r.Status = StatusWarnings
			}
		}
	}
	return r
}

// Count returns how many warnings have severity sev.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Severity == sev {
			n++
		}
	}
	return n
}

// OfType returns the warnings of type t, in report order.
func (r *Report) OfType(t WarningType) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Type == t {
			out = append(out, w)
		}
	}
	return out
}
