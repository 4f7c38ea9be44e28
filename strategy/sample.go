package strategy

import (
	"fmt"
	"slices"
	"strings"
)

// Sample strategies for trying the checker without writing a strategy file.
var samples = map[string]Parsed{
	// Opening range breakout: 2 contracts, 16 tick stop, 2R target.
	"orb": {
		Name:           "opening range breakout",
		PositionSizing: Contracts(2),
		ExitConditions: []ExitCondition{
			{Type: StopLoss, Unit: Ticks, Value: 16},
			{Type: TakeProfit, Unit: Ticks, Value: 32},
		},
	},
	"scalper": {
		Name:           "micro scalper",
		PositionSizing: Contracts(10),
		ExitConditions: []ExitCondition{
			{Type: StopLoss, Unit: Ticks, Value: 6},
			{Type: TakeProfit, Unit: Ticks, Value: 8},
			{Type: TimeExit, Value: 15},
		},
	},
	"swing": {
		Name:           "overnight swing",
		PositionSizing: Contracts(1),
		ExitConditions: []ExitCondition{
			{Type: StopLoss, Unit: Dollars, Value: 750},
			{Type: TrailingStop, Unit: Ticks, Value: 40},
		},
	},
}

// SampleNames lists the sample strategies, sorted.
func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for n := range samples {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Sample returns a copy of the named sample strategy.
func Sample(name string) (Parsed, error) {
	p, ok := samples[strings.ToLower(name)]
	if !ok {
		return Parsed{}, fmt.Errorf("unknown sample strategy %q (have %s)", name, strings.Join(SampleNames(), ", "))
	}
	p.ExitConditions = slices.Clone(p.ExitConditions)
	if mc := p.PositionSizing.MaxContracts; mc != nil {
		p.PositionSizing = Contracts(*mc)
	}
	return p, nil
}
