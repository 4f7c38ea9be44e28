package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/market"
	"github.com/rustyeddy/propcheck/strategy"
)

// Validator runs the fixed battery of compliance checks for one strategy
// against one account tier. It holds no state besides its policy and is
// safe for concurrent use.
type Validator struct {
	policy Policy
}

func NewValidator(p Policy) *Validator {
	return &Validator{policy: p}
}

// Policy returns the thresholds the validator grades against.
func (v *Validator) Policy() Policy {
	return v.policy
}

// Run executes every check in order and returns the warnings they produced:
// position limit, risk limit, consistency, drawdown, automation. A check
// never suppresses a later one.
func (v *Validator) Run(b *firms.Bundle, tier firms.Tier, s strategy.Parsed, instrument string) []Warning {
	warnings := []Warning{}

	if w, ok := v.checkPositionLimit(tier, s, instrument); ok {
		warnings = append(warnings, w)
	}
	if w, ok := v.checkRiskLimit(tier, s, instrument); ok {
		warnings = append(warnings, w)
	}
	if w, ok := consistencyInfo(tier); ok {
		warnings = append(warnings, w)
	}
	warnings = append(warnings, drawdownInfo(tier))
	if w, ok := automationWarning(b); ok {
		warnings = append(warnings, w)
	}

	return warnings
}

func (v *Validator) checkPositionLimit(tier firms.Tier, s strategy.Parsed, instrument string) (Warning, bool) {
	inst := market.Normalize(instrument)
	limit, ok := tier.ContractLimit(inst)
	if !ok {
		return Warning{}, false
	}
	requested := s.Contracts()

	switch {
	case requested > limit:
		return Warning{
			Type:     TypePositionLimit,
			Severity: SeverityError,
			Message: fmt.Sprintf("Strategy trades %d %s contracts but this account allows at most %d",
				requested, inst, limit),
			Suggestion: fmt.Sprintf("Reduce max contracts to %d or lower", limit),
		}, true
	case requested == limit:
		return Warning{
			Type:     TypePositionLimit,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Strategy trades the maximum of %d %s contracts, leaving no room below the limit",
				limit, inst),
			Suggestion: fmt.Sprintf("Consider %d contracts to keep headroom under the limit",
				CeilingSize(limit, v.policy.CeilingSizeFraction)),
		}, true
	}
	return Warning{}, false
}

func (v *Validator) checkRiskLimit(tier firms.Tier, s strategy.Parsed, instrument string) (Warning, bool) {
	if tier.DailyLossLimit == nil {
		return Warning{}, false
	}
	total, ok := TotalRisk(s.ExitConditions, s.PositionSizing.MaxContracts, instrument)
	if !ok {
		return Warning{}, false
	}

	limit := decimal.NewFromFloat(*tier.DailyLossLimit)
	errAt := limit.Mul(decimal.NewFromFloat(v.policy.RiskErrorFraction))
	warnAt := limit.Mul(decimal.NewFromFloat(v.policy.RiskWarnFraction))

	switch {
	case total.GreaterThan(errAt):
		suggestion := fmt.Sprintf("Keep total stop-loss risk at or below %s per trade", usd(errAt))
		sl, _ := s.StopLoss()
		if n := ContractsWithin(errAt, RiskPerContract(sl, instrument)); n >= 0 {
			suggestion += fmt.Sprintf(" (%d contracts with this stop)", n)
		}
		return Warning{
			Type:     TypeRiskLimit,
			Severity: SeverityError,
			Message: fmt.Sprintf("Stop-loss risk of %s exceeds %s of the %s daily loss limit",
				usd(total), pct(v.policy.RiskErrorFraction), usd(limit)),
			Suggestion: suggestion,
		}, true
	case total.GreaterThan(warnAt):
		return Warning{
			Type:     TypeRiskLimit,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Stop-loss risk of %s uses %s%% of the %s daily loss limit",
				usd(total), PercentOf(total, limit), usd(limit)),
			Suggestion: fmt.Sprintf("Risk %s-%s of the daily loss limit per trade to allow multiple attempts per day",
				pct(v.policy.RecommendedRiskLow), pct(v.policy.RecommendedRiskHigh)),
		}, true
	}
	return Warning{}, false
}

func consistencyInfo(tier firms.Tier) (Warning, bool) {
	if tier.ConsistencyRule <= 0 {
		return Warning{}, false
	}
	return Warning{
		Type:       TypeConsistency,
		Severity:   SeverityInfo,
		Message:    fmt.Sprintf("Consistency rule: no single day's profit may exceed %s of total profit", pct(tier.ConsistencyRule)),
		Suggestion: tier.ConsistencyNotes,
	}, true
}

func drawdownInfo(tier firms.Tier) Warning {
	desc := tier.DrawdownType.Describe()
	article := "a"
	if strings.ContainsRune("aeiou", rune(desc[0])) {
		article = "an"
	}
	msg := fmt.Sprintf("This account uses %s %s", article, desc)
	if tier.DrawdownNotes != "" {
		msg += ". " + tier.DrawdownNotes
	}
	return Warning{
		Type:     TypeInfo,
		Severity: SeverityInfo,
		Message:  msg,
	}
}

func automationWarning(b *firms.Bundle) (Warning, bool) {
	if b.AutomationPolicy == firms.AutomationAllowed {
		return Warning{}, false
	}
	return Warning{
		Type:       TypeInfo,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf("Automated trading is %s at %s", b.AutomationPolicy, b.Name),
		Suggestion: b.AutomationNotes,
	}, true
}
