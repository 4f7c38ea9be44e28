package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/propcheck/compliance"
	"github.com/rustyeddy/propcheck/config"
	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/logging"
)

// app carries the state shared by every subcommand once the persistent
// flags have been applied.
type app struct {
	cfgFile  string
	logLevel string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds the propcheck command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "propcheck",
		Short: "Check a futures strategy against prop firm rules",
		Long: `Propcheck grades a trading strategy against the published rules of a
proprietary trading firm account.

It checks:
  - Contract limits for the instrument traded
  - Stop-loss risk against the daily loss limit
  - Consistency, drawdown and automation rules of the firm

Supported firms: topstep, myfundedfutures, tradeify, alpha-futures, ftmo, fundednext`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newValidateCmd(a),
		newFirmsCmd(a),
		newFirmCmd(a),
		newDetectCmd(a),
		newServeCmd(a),
		newJournalCmd(a),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	a.cfg = cfg
	a.log = logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

// checker builds a compliance checker from the loaded config.
func (a *app) checker() *compliance.Checker {
	opts := []compliance.Option{
		compliance.WithLogger(a.log),
		compliance.WithPolicy(a.cfg.Policy),
	}
	if a.cfg.Rules.Dir != "" {
		a.log.Debug().Str("dir", a.cfg.Rules.Dir).Msg("using firm rules from disk")
		opts = append(opts, compliance.WithRepository(firms.NewRepository(os.DirFS(a.cfg.Rules.Dir))))
	}
	return compliance.New(opts...)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
