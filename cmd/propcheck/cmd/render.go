package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/market"
	"github.com/rustyeddy/propcheck/risk"
)

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

func renderReport(w io.Writer, r *risk.Report) {
	fr := r.FirmRules
	fmt.Fprintf(w, "%s %s account: %s\n", fr.FirmName, money(float64(fr.AccountSize)), strings.ToUpper(string(r.Status)))
	if fr.RulesVersion != "" {
		fmt.Fprintf(w, "Rules version %s\n", fr.RulesVersion)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) == 0 {
		fmt.Fprintln(w, "No findings.")
	}
	for _, wn := range r.Warnings {
		fmt.Fprintf(w, "  [%s] %s: %s\n", strings.ToUpper(string(wn.Severity)), wn.Type, wn.Message)
		if wn.Suggestion != "" {
			fmt.Fprintf(w, "      -> %s\n", wn.Suggestion)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Profit target:    %s\n", money(fr.ProfitTarget))
	if fr.DailyLossLimit != nil {
		fmt.Fprintf(w, "  Daily loss limit: %s\n", money(*fr.DailyLossLimit))
	} else {
		fmt.Fprintf(w, "  Daily loss limit: none\n")
	}
	fmt.Fprintf(w, "  Max drawdown:     %s (%s)\n", money(fr.MaxDrawdown), fr.DrawdownType)
	fmt.Fprintf(w, "  Max contracts:    %s\n", contractList(fr.MaxContracts))
	fmt.Fprintf(w, "  Automation:       %s\n", fr.AutomationPolicy)
}

func contractList(m map[market.Instrument]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %d", k, m[market.Instrument(k)])
	}
	return strings.Join(parts, ", ")
}

func renderTier(w io.Writer, b *firms.Bundle, size int, t firms.Tier) {
	fmt.Fprintf(w, "%s %s account\n", b.Name, money(float64(size)))
	fmt.Fprintf(w, "  Profit target:    %s (%.0f%%)\n", money(t.ProfitTarget), t.ProfitTargetPercent)
	if t.DailyLossLimit != nil {
		fmt.Fprintf(w, "  Daily loss limit: %s\n", money(*t.DailyLossLimit))
	} else {
		fmt.Fprintf(w, "  Daily loss limit: none\n")
	}
	fmt.Fprintf(w, "  Max drawdown:     %s, %s\n", money(t.MaxDrawdown), t.DrawdownType.Describe())
	fmt.Fprintf(w, "  Max contracts:    %s\n", contractList(t.MaxContracts))
	if t.ConsistencyRule > 0 {
		fmt.Fprintf(w, "  Consistency:      %.0f%% of total profit per day\n", t.ConsistencyRule*100)
	} else {
		fmt.Fprintf(w, "  Consistency:      none\n")
	}
	if t.MinimumTradingDays > 0 {
		fmt.Fprintf(w, "  Minimum days:     %d\n", t.MinimumTradingDays)
	}
}
