package risk

import "github.com/shopspring/decimal"

// ContractsWithin returns how many whole contracts fit in budget when each
// contract risks riskPerContract. A zero stop risks nothing, so the answer
// is unbounded and -1 is returned.
func ContractsWithin(budget, riskPerContract decimal.Decimal) int {
	if !riskPerContract.IsPositive() {
		return -1
	}
	if budget.IsNegative() {
		return 0
	}
	return int(budget.Div(riskPerContract).Floor().IntPart())
}

// CeilingSize is the contract count suggested for a strategy sitting
// exactly at a contract limit: floor(limit * fraction).
func CeilingSize(limit int, fraction float64) int {
	return int(decimal.NewFromInt(int64(limit)).Mul(decimal.NewFromFloat(fraction)).Floor().IntPart())
}
