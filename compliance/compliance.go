// Package compliance is the entry point of the rule engine: it resolves a
// firm and account size to a tier, runs the validator and assembles the
// report.
package compliance

import (
	"github.com/rs/zerolog"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/market"
	"github.com/rustyeddy/propcheck/risk"
	"github.com/rustyeddy/propcheck/strategy"
)

type Checker struct {
	repo      *firms.Repository
	validator *risk.Validator
	log       zerolog.Logger
}

type Option func(*Checker)

func WithRepository(r *firms.Repository) Option {
	return func(c *Checker) {
		c.repo = r
	}
}

func WithPolicy(p risk.Policy) Option {
	return func(c *Checker) {
		c.validator = risk.NewValidator(p)
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Checker) {
		c.log = l
	}
}

// New returns a Checker over the embedded firm rules and the default
// policy unless options say otherwise.
func New(opts ...Option) *Checker {
	c := &Checker{
		repo:      firms.Default(),
		validator: risk.NewValidator(risk.DefaultPolicy()),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate grades a parsed strategy against the rules of firmName at
// accountSize. The only expected errors are *firms.NotFoundError for an
// unsupported firm or an unknown account size.
func (c *Checker) Validate(firmName string, accountSize int, s strategy.Parsed, instrument string) (*risk.Report, error) {
	b, tier, err := c.Tier(firmName, accountSize)
	if err != nil {
		return nil, err
	}

	if _, ok := market.Lookup(instrument); !ok {
		if sl, hasStop := s.StopLoss(); hasStop && sl.Unit == strategy.Ticks {
			c.log.Warn().
				Str("instrument", instrument).
				Float64("tick_value", market.DefaultTickValue).
				Msg("unknown instrument, using default tick value for stop risk")
		}
	}

	warnings := c.validator.Run(b, tier, s, instrument)
	report := risk.BuildReport(b, accountSize, tier, warnings)

	c.log.Debug().
		Str("firm", b.Slug).
		Int("account_size", accountSize).
		Str("instrument", instrument).
		Str("status", string(report.Status)).
		Int("warnings", len(report.Warnings)).
		Msg("strategy validated")

	return report, nil
}

// Firm loads the rule bundle for firmName.
func (c *Checker) Firm(firmName string) (*firms.Bundle, error) {
	b, err := c.repo.Load(firmName)
	if err != nil {
		c.log.Debug().Err(err).Str("firm", firmName).Msg("firm lookup failed")
		return nil, err
	}
	return b, nil
}

// Tier loads the firm and resolves the exact tier for accountSize.
func (c *Checker) Tier(firmName string, accountSize int) (*firms.Bundle, firms.Tier, error) {
	b, err := c.Firm(firmName)
	if err != nil {
		return nil, firms.Tier{}, err
	}
	tier, err := firms.Resolve(b, accountSize)
	if err != nil {
		c.log.Debug().Err(err).Str("firm", b.Slug).Int("account_size", accountSize).Msg("tier lookup failed")
		return nil, firms.Tier{}, err
	}
	return b, tier, nil
}

// Firms lists the supported firm slugs in enumeration order.
func (c *Checker) Firms() []string {
	return firms.SupportedFirms()
}

// Detect finds the first supported firm mentioned in text.
func (c *Checker) Detect(text string) (string, bool) {
	return firms.DetectFirm(text)
}

// Policy returns the thresholds in use.
func (c *Checker) Policy() risk.Policy {
	return c.validator.Policy()
}
