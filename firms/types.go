package firms

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/rustyeddy/propcheck/market"
)

type AutomationPolicy string

const (
	AutomationAllowed    AutomationPolicy = "allowed"
	AutomationRestricted AutomationPolicy = "restricted"
	AutomationProhibited AutomationPolicy = "prohibited"
)

func (p AutomationPolicy) Valid() bool {
	switch p {
	case AutomationAllowed, AutomationRestricted, AutomationProhibited:
		return true
	}
	return false
}

type DrawdownType string

const (
	DrawdownStatic      DrawdownType = "static"
	DrawdownTrailing    DrawdownType = "trailing"
	DrawdownEODTrailing DrawdownType = "eod_trailing"
)

func (d DrawdownType) Valid() bool {
	switch d {
	case DrawdownStatic, DrawdownTrailing, DrawdownEODTrailing:
		return true
	}
	return false
}

// Describe returns the human readable name, e.g. "trailing drawdown".
func (d DrawdownType) Describe() string {
	switch d {
	case DrawdownStatic:
		return "static drawdown"
	case DrawdownTrailing:
		return "trailing drawdown"
	case DrawdownEODTrailing:
		return "end-of-day trailing drawdown"
	}
	return string(d) + " drawdown"
}

// Bundle is the complete, versioned rule set for one firm. Bundles are
// shared read-only between callers once loaded.
type Bundle struct {
	Name                  string           `json:"firmName" yaml:"name"`
	Slug                  string           `json:"slug" yaml:"slug"`
	Website               string           `json:"website" yaml:"website"`
	Version               string           `json:"version" yaml:"version"`
	EffectiveDate         string           `json:"effectiveDate" yaml:"effective_date"`
	AutomationPolicy      AutomationPolicy `json:"automationPolicy" yaml:"automation_policy"`
	AutomationNotes       string           `json:"automationNotes" yaml:"automation_notes"`
	SupportedAccountSizes []int            `json:"supportedAccountSizes" yaml:"supported_account_sizes"`
	Tiers                 map[int]Tier     `json:"tiers" yaml:"tiers"`
}

// Tier holds the rules for one funded account size.
type Tier struct {
	ProfitTarget              float64                   `json:"profitTarget" yaml:"profit_target"`
	ProfitTargetPercent       float64                   `json:"profitTargetPercent" yaml:"profit_target_percent"`
	DailyLossLimit            *float64                  `json:"dailyLossLimit" yaml:"daily_loss_limit"`
	DailyLossLimitPercent     *float64                  `json:"dailyLossLimitPercent" yaml:"daily_loss_limit_percent"`
	MaxDrawdown               float64                   `json:"maxDrawdown" yaml:"max_drawdown"`
	MaxDrawdownPercent        float64                   `json:"maxDrawdownPercent" yaml:"max_drawdown_percent"`
	DrawdownType              DrawdownType              `json:"drawdownType" yaml:"drawdown_type"`
	DrawdownNotes             string                    `json:"drawdownNotes" yaml:"drawdown_notes"`
	MaxContracts              map[market.Instrument]int `json:"maxContracts" yaml:"max_contracts"`
	ContractLimitProgression  string                    `json:"contractLimitProgression,omitempty" yaml:"contract_limit_progression,omitempty"`
	ConsistencyRule           float64                   `json:"consistencyRule" yaml:"consistency_rule"`
	ConsistencyNotes          string                    `json:"consistencyNotes" yaml:"consistency_notes"`
	MinimumTradingDays        int                       `json:"minimumTradingDays" yaml:"minimum_trading_days"`
	MaxSingleDayProfitPercent *float64                  `json:"maxSingleDayProfitPercent,omitempty" yaml:"max_single_day_profit_percent,omitempty"`
}

// ContractLimit returns the tier's contract limit for inst.
func (t Tier) ContractLimit(inst market.Instrument) (int, bool) {
	n, ok := t.MaxContracts[inst]
	return n, ok
}

func (t Tier) clone() Tier {
	c := t
	c.MaxContracts = maps.Clone(t.MaxContracts)
	c.DailyLossLimit = clonePtr(t.DailyLossLimit)
	c.DailyLossLimitPercent = clonePtr(t.DailyLossLimitPercent)
	c.MaxSingleDayProfitPercent = clonePtr(t.MaxSingleDayProfitPercent)
	return c
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (t Tier) validate() error {
	for name, v := range map[string]float64{
		"profit_target":         t.ProfitTarget,
		"profit_target_percent": t.ProfitTargetPercent,
		"max_drawdown":          t.MaxDrawdown,
		"max_drawdown_percent":  t.MaxDrawdownPercent,
		"consistency_rule":      t.ConsistencyRule,
	} {
		if !finite(v) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	for name, p := range map[string]*float64{
		"daily_loss_limit":              t.DailyLossLimit,
		"daily_loss_limit_percent":      t.DailyLossLimitPercent,
		"max_single_day_profit_percent": t.MaxSingleDayProfitPercent,
	} {
		if p != nil && !finite(*p) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if t.ProfitTarget <= 0 {
		return fmt.Errorf("profit_target must be positive")
	}
	if t.MaxDrawdown <= 0 {
		return fmt.Errorf("max_drawdown must be positive")
	}
	if t.DailyLossLimit != nil && *t.DailyLossLimit <= 0 {
		return fmt.Errorf("daily_loss_limit must be positive when set")
	}
	if !t.DrawdownType.Valid() {
		return fmt.Errorf("unknown drawdown_type %q", t.DrawdownType)
	}
	if t.ConsistencyRule < 0 || t.ConsistencyRule > 1 {
		return fmt.Errorf("consistency_rule must be between 0 and 1")
	}
	if t.MinimumTradingDays < 0 {
		return fmt.Errorf("minimum_trading_days must not be negative")
	}
	for inst, n := range t.MaxContracts {
		if !inst.Valid() {
			return fmt.Errorf("unknown instrument %q in max_contracts", inst)
		}
		if n <= 0 {
			return fmt.Errorf("max_contracts[%s] must be positive", inst)
		}
	}
	return nil
}

// Validate checks the bundle invariants: known enums and every tier keyed
// by a supported account size.
func (b *Bundle) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !IsSupported(b.Slug) {
		return fmt.Errorf("slug %q is not a supported firm", b.Slug)
	}
	if !b.AutomationPolicy.Valid() {
		return fmt.Errorf("unknown automation_policy %q", b.AutomationPolicy)
	}
	if len(b.Tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}
	for size, tier := range b.Tiers {
		if !slices.Contains(b.SupportedAccountSizes, size) {
			return fmt.Errorf("tier %d is not in supported_account_sizes", size)
		}
		if err := tier.validate(); err != nil {
			return fmt.Errorf("tier %d: %w", size, err)
		}
	}
	return nil
}

// AccountSizes returns the sizes that have a tier, ascending.
func (b *Bundle) AccountSizes() []int {
	sizes := slices.Collect(maps.Keys(b.Tiers))
	slices.Sort(sizes)
	return sizes
}

// Tier resolves the exact tier for size. See Resolve.
func (b *Bundle) Tier(size int) (Tier, error) {
	return Resolve(b, size)
}
