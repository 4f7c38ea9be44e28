package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"run_id", "created_at", "firm", "account_size", "instrument",
	"strategy", "status", "is_valid", "warnings",
}

// WriteCSV writes one row per entry, without the report body.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		err := cw.Write([]string{
			e.RunID,
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Firm,
			strconv.Itoa(e.AccountSize),
			e.Instrument,
			e.Strategy,
			string(e.Status),
			strconv.FormatBool(e.IsValid),
			strconv.Itoa(e.Warnings),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
