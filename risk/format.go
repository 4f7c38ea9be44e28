package risk

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// usd renders a dollar amount as "$1,250" or "$412.50".
func usd(d decimal.Decimal) string {
	if d.IsInteger() {
		return "$" + humanize.Comma(d.IntPart())
	}
	return "$" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// pct renders a fraction as a percentage, 0.4 -> "40%".
func pct(fraction float64) string {
	return decimal.NewFromFloat(fraction).Mul(hundred).String() + "%"
}
