package risk

import (
	"fmt"
	"math"
)

// Policy holds the thresholds the validator grades against. They are
// fractions, not percentages.
type Policy struct {
	// Stop risk above RiskErrorFraction of the daily loss limit is an error,
	// above RiskWarnFraction a warning.
	RiskErrorFraction float64 `json:"risk_error_fraction" yaml:"risk_error_fraction"` // 0.5
	RiskWarnFraction  float64 `json:"risk_warn_fraction" yaml:"risk_warn_fraction"`   // 0.33

	// Recommended per-trade risk band quoted in suggestions.
	RecommendedRiskLow  float64 `json:"recommended_risk_low" yaml:"recommended_risk_low"`   // 0.25
	RecommendedRiskHigh float64 `json:"recommended_risk_high" yaml:"recommended_risk_high"` // 0.33

	// Contracts suggested when a strategy sits exactly at the limit.
	CeilingSizeFraction float64 `json:"ceiling_size_fraction" yaml:"ceiling_size_fraction"` // 0.8
}

func DefaultPolicy() Policy {
	return Policy{
		RiskErrorFraction:   0.5,
		RiskWarnFraction:    0.33,
		RecommendedRiskLow:  0.25,
		RecommendedRiskHigh: 0.33,
		CeilingSizeFraction: 0.8,
	}
}

func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"risk_error_fraction":   p.RiskErrorFraction,
		"risk_warn_fraction":    p.RiskWarnFraction,
		"recommended_risk_low":  p.RecommendedRiskLow,
		"recommended_risk_high": p.RecommendedRiskHigh,
		"ceiling_size_fraction": p.CeilingSizeFraction,
	} {
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1]", name)
		}
	}
	if p.RiskWarnFraction >= p.RiskErrorFraction {
		return fmt.Errorf("risk_warn_fraction must be below risk_error_fraction")
	}
	if p.RecommendedRiskLow > p.RecommendedRiskHigh {
		return fmt.Errorf("recommended_risk_low must not exceed recommended_risk_high")
	}
	return nil
}
