package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propcheck/journal"
)

func newJournalCmd(a *app) *cobra.Command {
	var dbPath string

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the validation journal",
		Long: `Query validation runs recorded in the SQLite journal.

Subcommands:
  list  - List recent runs
  show  - Show one run as an Org-mode block

Examples:
  propcheck journal list --limit 10
  propcheck journal list --day 2024-01-15 --format csv
  propcheck journal show 01HV3K9Z8Q1W2E3R4T5Y6U7I8O`,
	}
	journalCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (default from config)")

	open := func() (*journal.SQLite, error) {
		path := dbPath
		if path == "" {
			path = a.cfg.Journal.DBPath
		}
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	var (
		limit  int
		day    string
		format string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded validations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			var entries []journal.Entry
			if day != "" {
				start, end, err := dayBounds(time.Local, day)
				if err != nil {
					return fmt.Errorf("date: %w", err)
				}
				entries, err = j.ListBetween(context.Background(), start, end)
				if err != nil {
					return fmt.Errorf("query journal: %w", err)
				}
			} else {
				entries, err = j.List(context.Background(), limit)
				if err != nil {
					return fmt.Errorf("query journal: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "org":
				fmt.Fprintln(out, journal.FormatEntriesOrg(entries))
			case "csv":
				return journal.WriteCSV(out, entries)
			case "table":
				for _, e := range entries {
					fmt.Fprintf(out, "%s  %s  %-16s %8d  %-4s %s\n",
						e.RunID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Firm, e.AccountSize, e.Instrument, e.Status)
				}
			default:
				return fmt.Errorf("unknown format %q (table, org, csv)", format)
			}
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list, 0 for all")
	listCmd.Flags().StringVar(&day, "day", "", "only runs on this day (YYYY-MM-DD, local time)")
	listCmd.Flags().StringVar(&format, "format", "table", "output format: table, org, csv")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			e, err := j.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", journal.FormatEntryOrg(e))
			return nil
		},
	}

	journalCmd.AddCommand(listCmd, showCmd)
	return journalCmd
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
