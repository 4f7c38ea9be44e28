package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFirmsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "firms",
		Short: "List supported firms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.checker()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tAUTOMATION\tACCOUNT SIZES")
			for _, slug := range c.Firms() {
				b, err := c.Firm(slug)
				if err != nil {
					return err
				}
				sizes := make([]string, 0, len(b.SupportedAccountSizes))
				for _, s := range b.AccountSizes() {
					sizes = append(sizes, money(float64(s)))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Slug, b.Name, b.AutomationPolicy, strings.Join(sizes, " "))
			}
			return tw.Flush()
		},
	}
}

func newFirmCmd(a *app) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "firm <name>",
		Short: "Show the rules of one firm",
		Long: `Show a firm's rule bundle, or a single account tier with --size.

Examples:
  propcheck firm topstep
  propcheck firm myfundedfutures --size 100000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.checker()
			name := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("size") {
				b, tier, err := c.Tier(name, size)
				if err != nil {
					return err
				}
				renderTier(out, b, size, tier)
				return nil
			}

			b, err := c.Firm(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%s)\n", b.Name, b.Slug)
			if b.Website != "" {
				fmt.Fprintf(out, "  Website:    %s\n", b.Website)
			}
			fmt.Fprintf(out, "  Rules:      version %s, effective %s\n", b.Version, b.EffectiveDate)
			fmt.Fprintf(out, "  Automation: %s\n", b.AutomationPolicy)
			if b.AutomationNotes != "" {
				fmt.Fprintf(out, "              %s\n", b.AutomationNotes)
			}
			for _, s := range b.AccountSizes() {
				t, err := b.Tier(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				renderTier(out, b, s, t)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "account size in dollars")
	return cmd
}

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text...>",
		Short: "Find the supported firm mentioned in free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, ok := a.checker().Detect(strings.Join(args, " "))
			if !ok {
				return fmt.Errorf("no supported firm mentioned")
			}
			printf(cmd, "%s\n", slug)
			return nil
		},
	}
}
