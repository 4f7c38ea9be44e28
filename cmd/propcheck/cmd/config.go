package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propcheck/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage propcheck configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  propcheck config init -o propcheck.yaml
  propcheck config validate -f propcheck.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			printf(cmd, "✓ Created default configuration: %s\n", output)
			printf(cmd, "\nEdit the file and run with:\n")
			printf(cmd, "  propcheck --config %s serve\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "propcheck.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			printf(cmd, "✓ Configuration valid: %s\n", path)
			printf(cmd, "  Server: %s (rate %.0f/s, %d tokens)\n", cfg.Server.Addr, cfg.Server.RateLimit, len(cfg.Server.APITokens))
			printf(cmd, "  Policy: error above %.0f%%, warn above %.0f%% of the daily loss limit\n",
				cfg.Policy.RiskErrorFraction*100, cfg.Policy.RiskWarnFraction*100)
			if cfg.Journal.Enabled {
				printf(cmd, "  Journal: %s\n", cfg.Journal.DBPath)
			} else {
				printf(cmd, "  Journal: disabled\n")
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}
