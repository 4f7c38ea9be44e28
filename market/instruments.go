// market/instruments.go
package market

import "strings"

// Instrument is a futures root symbol.
type Instrument string

const (
	ES  Instrument = "ES"
	NQ  Instrument = "NQ"
	MES Instrument = "MES"
	MNQ Instrument = "MNQ"
	YM  Instrument = "YM"
	RTY Instrument = "RTY"
	CL  Instrument = "CL"
	GC  Instrument = "GC"
)

// DefaultTickValue is used for any symbol outside Instruments. It is the ES
// tick value and only an approximation for other contracts.
const DefaultTickValue = 12.5

type InstrumentMeta struct {
	Symbol    Instrument
	Name      string
	Exchange  string
	TickSize  float64 // minimum price increment, in index points / price units
	TickValue float64 // USD per tick per contract
}

var Instruments = map[Instrument]InstrumentMeta{
	ES: {
		Symbol:    ES,
		Name:      "E-mini S&P 500",
		Exchange:  "CME",
		TickSize:  0.25,
		TickValue: 12.5,
	},
	NQ: {
		Symbol:    NQ,
		Name:      "E-mini Nasdaq-100",
		Exchange:  "CME",
		TickSize:  0.25,
		TickValue: 5,
	},
	MES: {
		Symbol:    MES,
		Name:      "Micro E-mini S&P 500",
		Exchange:  "CME",
		TickSize:  0.25,
		TickValue: 1.25,
	},
	MNQ: {
		Symbol:    MNQ,
		Name:      "Micro E-mini Nasdaq-100",
		Exchange:  "CME",
		TickSize:  0.25,
		TickValue: 0.5,
	},
	YM: {
		Symbol:    YM,
		Name:      "E-mini Dow",
		Exchange:  "CBOT",
		TickSize:  1,
		TickValue: 5,
	},
	RTY: {
		Symbol:    RTY,
		Name:      "E-mini Russell 2000",
		Exchange:  "CME",
		TickSize:  0.1,
		TickValue: 5,
	},
	CL: {
		Symbol:    CL,
		Name:      "Crude Oil",
		Exchange:  "NYMEX",
		TickSize:  0.01,
		TickValue: 10,
	},
	GC: {
		Symbol:    GC,
		Name:      "Gold",
		Exchange:  "COMEX",
		TickSize:  0.1,
		TickValue: 10,
	},
}

// Symbols lists the supported instruments in a stable display order.
var Symbols = []Instrument{ES, NQ, MES, MNQ, YM, RTY, CL, GC}

// Normalize trims and uppercases a user supplied symbol.
func Normalize(sym string) Instrument {
	return Instrument(strings.ToUpper(strings.TrimSpace(sym)))
}

// Lookup returns the metadata for sym. The second result is false when sym
// is not one of the supported instruments.
func Lookup(sym string) (InstrumentMeta, bool) {
	meta, ok := Instruments[Normalize(sym)]
	return meta, ok
}

// Valid reports whether i is one of the supported instruments.
func (i Instrument) Valid() bool {
	_, ok := Instruments[i]
	return ok
}

// TickValue returns the dollar value of one tick for one contract of sym.
// Unknown symbols get DefaultTickValue.
func TickValue(sym string) float64 {
	if meta, ok := Lookup(sym); ok {
		return meta.TickValue
	}
	return DefaultTickValue
}
