package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/propcheck/risk"
)

// FormatEntryOrg renders an Entry as an Org-mode block suitable for pasting
// into a trading journal. Facts go in the PROPERTIES drawer, each warning
// becomes a list item under Findings.
func FormatEntryOrg(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Validation: %s %d %s (%s)\n", e.Firm, e.AccountSize, e.Instrument, shortID(e.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", e.RunID)
	fmt.Fprintf(&b, ":CREATED: %s\n", e.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":FIRM: %s\n", e.Firm)
	fmt.Fprintf(&b, ":ACCOUNT_SIZE: %d\n", e.AccountSize)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", e.Instrument)
	if e.Strategy != "" {
		fmt.Fprintf(&b, ":STRATEGY: %s\n", e.Strategy)
	}
	fmt.Fprintf(&b, ":STATUS: %s\n", e.Status)
	fmt.Fprintf(&b, ":VALID: %t\n", e.IsValid)
	if e.Report != nil && e.Report.FirmRules.RulesVersion != "" {
		fmt.Fprintf(&b, ":RULES_VERSION: %s\n", e.Report.FirmRules.RulesVersion)
	}
	b.WriteString(":END:\n\n")

	b.WriteString("*** Findings\n")
	if e.Report == nil || len(e.Report.Warnings) == 0 {
		b.WriteString("- none\n")
	} else {
		for _, w := range e.Report.Warnings {
			fmt.Fprintf(&b, "- [%s] %s\n", orgTag(w), w.Message)
			if w.Suggestion != "" {
				fmt.Fprintf(&b, "  - %s\n", w.Suggestion)
			}
		}
	}
	b.WriteString("\n*** Review\n- \n")
	return b.String()
}

// FormatEntriesOrg renders multiple entries separated by blank lines.
func FormatEntriesOrg(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}

func orgTag(w risk.Warning) string {
	return strings.ToUpper(string(w.Severity)) + " " + string(w.Type)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
