// Package journal records validation runs so a trader can look back at what
// was checked, against which firm, and what came out.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/propcheck/risk"
)

// Entry is one journaled validation.
type Entry struct {
	RunID       string       `json:"runId"`
	CreatedAt   time.Time    `json:"createdAt"`
	Firm        string       `json:"firm"`
	AccountSize int          `json:"accountSize"`
	Instrument  string       `json:"instrument"`
	Strategy    string       `json:"strategy,omitempty"`
	Status      risk.Status  `json:"status"`
	IsValid     bool         `json:"isValid"`
	Warnings    int          `json:"warnings"`
	Report      *risk.Report `json:"report"`
}

// NewEntry stamps a report with a fresh run id and the current time.
func NewEntry(firm string, accountSize int, instrument, strategyName string, r *risk.Report) Entry {
	now := time.Now().UTC()
	e := Entry{
		RunID:       NewRunID(now),
		CreatedAt:   now,
		Firm:        firm,
		AccountSize: accountSize,
		Instrument:  instrument,
		Strategy:    strategyName,
		Report:      r,
	}
	if r != nil {
		e.Status = r.Status
		e.IsValid = r.IsValid
		e.Warnings = len(r.Warnings)
	}
	return e
}

func (e Entry) reportJSON() (string, error) {
	if e.Report == nil {
		return "null", nil
	}
	b, err := json.Marshal(e.Report)
	if err != nil {
		return "", fmt.Errorf("encode report %s: %w", e.RunID, err)
	}
	return string(b), nil
}

type Journal interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// Noop discards entries. It stands in when journaling is disabled.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error { return nil }
func (Noop) Close() error                        { return nil }
