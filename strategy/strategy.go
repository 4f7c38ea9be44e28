// Package strategy holds the parsed form of an automated trading strategy as
// produced by the upstream strategy parser. The compliance engine reads it
// and never mutates it.
package strategy

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type ExitType string

const (
	StopLoss     ExitType = "stop_loss"
	TakeProfit   ExitType = "take_profit"
	TrailingStop ExitType = "trailing_stop"
	TimeExit     ExitType = "time_exit"
)

type Unit string

const (
	Ticks   Unit = "ticks"
	Dollars Unit = "dollars"
)

// ExitCondition is one exit rule, e.g. a 16 tick stop loss.
type ExitCondition struct {
	Type  ExitType `json:"type" yaml:"type"`
	Unit  Unit     `json:"unit,omitempty" yaml:"unit,omitempty"`
	Value float64  `json:"value" yaml:"value"`
}

// PositionSizing describes how many contracts the strategy trades. A nil
// MaxContracts means the trader has not specified it yet.
type PositionSizing struct {
	MaxContracts *int `json:"maxContracts,omitempty" yaml:"maxContracts,omitempty"`
}

// Parsed is the structured strategy handed to the compliance engine.
type Parsed struct {
	Name           string          `json:"name,omitempty" yaml:"name,omitempty"`
	PositionSizing PositionSizing  `json:"positionSizing" yaml:"positionSizing"`
	ExitConditions []ExitCondition `json:"exitConditions" yaml:"exitConditions"`
}

// Contracts returns the requested contract count, 1 when unspecified.
func (p Parsed) Contracts() int {
	if p.PositionSizing.MaxContracts == nil {
		return 1
	}
	return *p.PositionSizing.MaxContracts
}

// StopLoss returns the first stop_loss exit condition.
func (p Parsed) StopLoss() (ExitCondition, bool) {
	return FirstStopLoss(p.ExitConditions)
}

// FirstStopLoss returns the first exit of type stop_loss in exits.
func FirstStopLoss(exits []ExitCondition) (ExitCondition, bool) {
	for _, ec := range exits {
		if ec.Type == StopLoss {
			return ec, true
		}
	}
	return ExitCondition{}, false
}

// Contracts is a small helper for building a PositionSizing in code.
func Contracts(n int) PositionSizing {
	return PositionSizing{MaxContracts: &n}
}

// Validate checks the shape of a strategy loaded from outside the process.
func (p Parsed) Validate() error {
	if mc := p.PositionSizing.MaxContracts; mc != nil && *mc <= 0 {
		return fmt.Errorf("positionSizing.maxContracts must be positive")
	}
	for i, ec := range p.ExitConditions {
		if ec.Type == "" {
			return fmt.Errorf("exitConditions[%d].type is required", i)
		}
		if math.IsNaN(ec.Value) || math.IsInf(ec.Value, 0) {
			return fmt.Errorf("exitConditions[%d].value must be a finite number", i)
		}
		if ec.Value < 0 {
			return fmt.Errorf("exitConditions[%d].value must not be negative", i)
		}
		if ec.Type == StopLoss && ec.Unit != Ticks && ec.Unit != Dollars {
			return fmt.Errorf("exitConditions[%d].unit must be 'ticks' or 'dollars'", i)
		}
	}
	return nil
}

// LoadFromFile reads a strategy from a YAML or JSON file.
func LoadFromFile(path string) (*Parsed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}

	p := &Parsed{}

	// YAML is a superset of JSON, the JSON pass only improves the error.
	if err := yaml.Unmarshal(data, p); err != nil {
		if jerr := json.Unmarshal(data, p); jerr != nil {
			return nil, fmt.Errorf("parse strategy (tried YAML and JSON): %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}
	return p, nil
}
