package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/market"
	"github.com/rustyeddy/propcheck/strategy"
)

func f64(v float64) *float64 { return &v }

func testBundle(policy firms.AutomationPolicy) *firms.Bundle {
	return &firms.Bundle{
		Name:                  "Test Firm",
		Slug:                  "topstep",
		Version:               "test",
		AutomationPolicy:      policy,
		AutomationNotes:       "Bots must be registered with support.",
		SupportedAccountSizes: []int{50000},
		Tiers:                 map[int]firms.Tier{50000: testTier()},
	}
}

func testTier() firms.Tier {
	return firms.Tier{
		ProfitTarget:     3000,
		DailyLossLimit:   f64(1000),
		MaxDrawdown:      2000,
		DrawdownType:     firms.DrawdownTrailing,
		DrawdownNotes:    "Trails peak equity until the starting balance.",
		MaxContracts:     map[market.Instrument]int{market.ES: 5, market.MES: 50},
		ConsistencyRule:  0.4,
		ConsistencyNotes: "Best day under 40%.",
	}
}

func stopTicks(ticks float64, contracts *int) strategy.Parsed {
	return strategy.Parsed{
		PositionSizing: strategy.PositionSizing{MaxContracts: contracts},
		ExitConditions: []strategy.ExitCondition{
			{Type: strategy.StopLoss, Unit: strategy.Ticks, Value: ticks},
		},
	}
}

func stopDollars(dollars float64) strategy.Parsed {
	return strategy.Parsed{
		PositionSizing: strategy.Contracts(1),
		ExitConditions: []strategy.ExitCondition{
			{Type: strategy.StopLoss, Unit: strategy.Dollars, Value: dollars},
		},
	}
}

func run(t *testing.T, b *firms.Bundle, tier firms.Tier, s strategy.Parsed, instrument string) *Report {
	t.Helper()
	v := NewValidator(DefaultPolicy())
	return BuildReport(b, 50000, tier, v.Run(b, tier, s, instrument))
}

func TestPositionLimit(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	r := run(t, b, testTier(), strategy.Parsed{PositionSizing: strategy.Contracts(6)}, "ES")
	got := r.OfType(TypePositionLimit)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityError, got[0].Severity)
	assert.Contains(t, got[0].Message, "6")
	assert.Contains(t, got[0].Message, "5")
	assert.Contains(t, got[0].Message, "ES")
	assert.Contains(t, got[0].Suggestion, "5")

	r = run(t, b, testTier(), strategy.Parsed{PositionSizing: strategy.Contracts(5)}, "ES")
	got = r.OfType(TypePositionLimit)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityWarning, got[0].Severity)
	assert.Contains(t, got[0].Suggestion, "4")

	r = run(t, b, testTier(), strategy.Parsed{PositionSizing: strategy.Contracts(4)}, "ES")
	assert.Empty(t, r.OfType(TypePositionLimit))

	// unspecified size counts as one contract
	r = run(t, b, testTier(), strategy.Parsed{}, "ES")
	assert.Empty(t, r.OfType(TypePositionLimit))

	// no limit for the instrument, nothing to check
	r = run(t, b, testTier(), strategy.Parsed{PositionSizing: strategy.Contracts(500)}, "CL")
	assert.Empty(t, r.OfType(TypePositionLimit))

	// symbols are normalized before the limit lookup
	r = run(t, b, testTier(), strategy.Parsed{PositionSizing: strategy.Contracts(51)}, "mes")
	require.Len(t, r.OfType(TypePositionLimit), 1)
}

func TestRiskLimit(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	// 16 ticks * $12.50 * 2 = $400, 40% of $1,000
	r := run(t, b, testTier(), stopTicks(16, intPtr(2)), "ES")
	got := r.OfType(TypeRiskLimit)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityWarning, got[0].Severity)
	assert.Contains(t, got[0].Message, "$400")
	assert.Contains(t, got[0].Message, "40%")
	assert.Contains(t, got[0].Suggestion, "25%-33%")

	// 3 contracts: $600, 60%
	r = run(t, b, testTier(), stopTicks(16, intPtr(3)), "ES")
	got = r.OfType(TypeRiskLimit)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityError, got[0].Severity)
	assert.Contains(t, got[0].Message, "$600")
	assert.Contains(t, got[0].Message, "50%")
	assert.Contains(t, got[0].Suggestion, "$500")
	assert.Contains(t, got[0].Suggestion, "2 contracts")
}

func TestRiskLimitBands(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	tests := []struct {
		dollars float64
		want    Severity
	}{
		{100, ""},
		{330, ""},
		{330.01, SeverityWarning},
		{499.99, SeverityWarning},
		{500, SeverityWarning},
		{500.01, SeverityError},
		{5000, SeverityError},
	}

	for _, tt := range tests {
		r := run(t, b, testTier(), stopDollars(tt.dollars), "ES")
		got := r.OfType(TypeRiskLimit)
		if tt.want == "" {
			assert.Empty(t, got, "$%v", tt.dollars)
			continue
		}
		require.Len(t, got, 1, "$%v", tt.dollars)
		assert.Equal(t, tt.want, got[0].Severity, "$%v", tt.dollars)
	}
}

func TestRiskLimitNotApplicable(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	// no stop loss
	s := strategy.Parsed{
		PositionSizing: strategy.Contracts(2),
		ExitConditions: []strategy.ExitCondition{{Type: strategy.TakeProfit, Unit: strategy.Ticks, Value: 100}},
	}
	r := run(t, b, testTier(), s, "ES")
	assert.Empty(t, r.OfType(TypeRiskLimit))

	// no daily loss limit
	tier := testTier()
	tier.DailyLossLimit = nil
	r = run(t, b, tier, stopTicks(400, intPtr(4)), "ES")
	assert.Empty(t, r.OfType(TypeRiskLimit))
}

func TestRiskLimitUnknownInstrumentUsesDefault(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	// 32 ticks * $12.50 = $400
	r := run(t, b, testTier(), stopTicks(32, nil), "ZB")
	got := r.OfType(TypeRiskLimit)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityWarning, got[0].Severity)
	assert.Contains(t, got[0].Message, "$400")
}

func TestConsistencyInfo(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	r := run(t, b, testTier(), strategy.Parsed{}, "ES")
	got := r.OfType(TypeConsistency)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityInfo, got[0].Severity)
	assert.Contains(t, got[0].Message, "40%")
	assert.Equal(t, "Best day under 40%.", got[0].Suggestion)

	tier := testTier()
	tier.ConsistencyRule = 0
	r = run(t, b, tier, strategy.Parsed{}, "ES")
	assert.Empty(t, r.OfType(TypeConsistency))
}

func TestDrawdownInfo(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationAllowed)

	r := run(t, b, testTier(), strategy.Parsed{}, "ES")
	info := r.OfType(TypeInfo)
	require.Len(t, info, 1)
	assert.Equal(t, SeverityInfo, info[0].Severity)
	assert.Contains(t, info[0].Message, "trailing drawdown")
	assert.Contains(t, info[0].Message, "Trails peak equity until the starting balance.")

	tier := testTier()
	tier.DrawdownType = firms.DrawdownEODTrailing
	tier.DrawdownNotes = ""
	r = run(t, b, tier, strategy.Parsed{}, "ES")
	info = r.OfType(TypeInfo)
	require.Len(t, info, 1)
	assert.Equal(t, "This account uses an end-of-day trailing drawdown", info[0].Message)
}

func TestAutomationPolicy(t *testing.T) {
	t.Parallel()

	for _, policy := range []firms.AutomationPolicy{firms.AutomationRestricted, firms.AutomationProhibited} {
		b := testBundle(policy)
		r := run(t, b, testTier(), strategy.Parsed{}, "ES")

		last := r.Warnings[len(r.Warnings)-1]
		assert.Equal(t, SeverityWarning, last.Severity)
		assert.Contains(t, last.Message, string(policy))
		assert.Equal(t, b.AutomationNotes, last.Suggestion)
		assert.Equal(t, StatusWarnings, r.Status)
	}

	r := run(t, testBundle(firms.AutomationAllowed), testTier(), strategy.Parsed{}, "ES")
	assert.Zero(t, r.Count(SeverityWarning))
	assert.Equal(t, StatusValid, r.Status)
}

func TestCheckOrder(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationRestricted)
	r := run(t, b, testTier(), stopTicks(16, intPtr(6)), "ES")

	var types []WarningType
	var sevs []Severity
	for _, w := range r.Warnings {
		types = append(types, w.Type)
		sevs = append(sevs, w.Severity)
	}
	assert.Equal(t, []WarningType{TypePositionLimit, TypeRiskLimit, TypeConsistency, TypeInfo, TypeInfo}, types)
	assert.Equal(t, []Severity{SeverityError, SeverityError, SeverityInfo, SeverityInfo, SeverityWarning}, sevs)
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	b := testBundle(firms.AutomationRestricted)
	tier := testTier()
	s := stopTicks(16, intPtr(5))
	v := NewValidator(DefaultPolicy())

	first := BuildReport(b, 50000, tier, v.Run(b, tier, s, "ES"))
	second := BuildReport(b, 50000, tier, v.Run(b, tier, s, "ES"))
	assert.Equal(t, first, second)
	assert.Equal(t, testTier(), tier)
	assert.Equal(t, 5, *s.PositionSizing.MaxContracts)
}
