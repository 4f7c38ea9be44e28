package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/propcheck/market"
	"github.com/rustyeddy/propcheck/strategy"
)

var hundred = decimal.NewFromInt(100)

// RiskPerContract converts a stop loss into dollars for one contract.
// Tick stops are multiplied by the instrument's tick value, any other unit
// is taken as dollars.
func RiskPerContract(sl strategy.ExitCondition, instrument string) decimal.Decimal {
	v := decimal.NewFromFloat(sl.Value)
	if sl.Unit == strategy.Ticks {
		return v.Mul(decimal.NewFromFloat(market.TickValue(instrument)))
	}
	return v
}

// TotalRisk is the dollar loss if the first stop loss in exits is hit on
// every contract. maxContracts defaults to 1. The second result is false
// when there is no stop loss.
func TotalRisk(exits []strategy.ExitCondition, maxContracts *int, instrument string) (decimal.Decimal, bool) {
	sl, ok := strategy.FirstStopLoss(exits)
	if !ok {
		return decimal.Zero, false
	}

	contracts := 1
	if maxContracts != nil {
		contracts = *maxContracts
	}
	return RiskPerContract(sl, instrument).Mul(decimal.NewFromInt(int64(contracts))), true
}

// PercentOf returns part as a whole-number percentage of whole.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(0)
}
