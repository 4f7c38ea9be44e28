package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/journal"
	"github.com/rustyeddy/propcheck/strategy"
)

// errNotCompliant is returned by validate --strict for an invalid report.
var errNotCompliant = errors.New("strategy is not compliant")

type validateOptions struct {
	firm         string
	size         int
	instrument   string
	strategyFile string
	sample       string
	maxContracts int
	stopTicks    float64
	stopDollars  float64
	json         bool
	journalDB    string
	strict       bool
}

func newValidateCmd(a *app) *cobra.Command {
	o := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a strategy against a firm's account rules",
		Long: `Grade a strategy against the rules of one firm account tier.

The strategy comes from a YAML or JSON file or a sample, adjusted by
flags. Flags win.

Examples:
  propcheck validate --firm topstep --size 50000 --instrument ES --max-contracts 2 --stop-ticks 16
  propcheck validate --firm ftmo --size 100000 --instrument MES --strategy orb.yaml --json
  propcheck validate --firm tradeify --size 50000 --instrument MNQ --sample scalper`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.firm, "firm", "", "firm name or slug (required)")
	f.IntVar(&o.size, "size", 0, "account size in dollars (required)")
	f.StringVar(&o.instrument, "instrument", "", "futures symbol, e.g. ES or MNQ (required)")
	f.StringVar(&o.strategyFile, "strategy", "", "strategy file (YAML or JSON)")
	f.StringVar(&o.sample, "sample", "", "start from a sample strategy: "+strings.Join(strategy.SampleNames(), ", "))
	f.IntVar(&o.maxContracts, "max-contracts", 0, "contracts traded")
	f.Float64Var(&o.stopTicks, "stop-ticks", 0, "stop loss in ticks")
	f.Float64Var(&o.stopDollars, "stop-dollars", 0, "stop loss in dollars per contract")
	f.BoolVar(&o.json, "json", false, "print the report as JSON")
	f.StringVar(&o.journalDB, "journal", "", "record the run in this SQLite journal")
	f.BoolVar(&o.strict, "strict", false, "exit non-zero when the strategy is not compliant")
	_ = cmd.MarkFlagRequired("firm")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("instrument")
	cmd.MarkFlagsMutuallyExclusive("stop-ticks", "stop-dollars")
	cmd.MarkFlagsMutuallyExclusive("strategy", "sample")

	return cmd
}

func runValidate(cmd *cobra.Command, a *app, o *validateOptions) error {
	s, err := o.strategy(cmd)
	if err != nil {
		return err
	}

	report, err := a.checker().Validate(o.firm, o.size, s, o.instrument)
	if err != nil {
		return err
	}

	if j, err := a.openJournal(o.journalDB); err != nil {
		return err
	} else if j != nil {
		defer j.Close()
		entry := journal.NewEntry(firms.Normalize(o.firm), o.size, o.instrument, s.Name, report)
		if err := j.Record(context.Background(), entry); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		a.log.Debug().Str("run_id", entry.RunID).Msg("validation journaled")
	}

	if o.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		renderReport(cmd.OutOrStdout(), report)
	}

	if o.strict && !report.IsValid {
		return errNotCompliant
	}
	return nil
}

func (o *validateOptions) strategy(cmd *cobra.Command) (strategy.Parsed, error) {
	var s strategy.Parsed
	switch {
	case o.strategyFile != "":
		p, err := strategy.LoadFromFile(o.strategyFile)
		if err != nil {
			return s, err
		}
		s = *p
	case o.sample != "":
		p, err := strategy.Sample(o.sample)
		if err != nil {
			return s, err
		}
		s = p
	}

	flags := cmd.Flags()
	if flags.Changed("max-contracts") {
		if o.maxContracts <= 0 {
			return s, fmt.Errorf("--max-contracts must be positive")
		}
		s.PositionSizing = strategy.Contracts(o.maxContracts)
	}
	switch {
	case flags.Changed("stop-ticks"):
		s.ExitConditions = withStop(s.ExitConditions, strategy.Ticks, o.stopTicks)
	case flags.Changed("stop-dollars"):
		s.ExitConditions = withStop(s.ExitConditions, strategy.Dollars, o.stopDollars)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid strategy: %w", err)
	}
	return s, nil
}

// withStop replaces every stop_loss exit in exits with a single one in
// front.
func withStop(exits []strategy.ExitCondition, unit strategy.Unit, value float64) []strategy.ExitCondition {
	out := []strategy.ExitCondition{{Type: strategy.StopLoss, Unit: unit, Value: value}}
	for _, ec := range exits {
		if ec.Type != strategy.StopLoss {
			out = append(out, ec)
		}
	}
	return out
}

// openJournal opens the journal named by path, falling back to the config.
// It returns nil when journaling is off.
func (a *app) openJournal(path string) (*journal.SQLite, error) {
	if path == "" && a.cfg.Journal.Enabled {
		path = a.cfg.Journal.DBPath
	}
	if path == "" {
		return nil, nil
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}
