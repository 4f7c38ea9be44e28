package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/propcheck/firms"
	"github.com/rustyeddy/propcheck/market"
	"github.com/rustyeddy/propcheck/risk"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func testReport() *risk.Report {
	dll := 1000.0
	return &risk.Report{
		IsValid: true,
		Status:  risk.StatusWarnings,
		Warnings: []risk.Warning{
			{
				Type:       risk.TypeRiskLimit,
				Severity:   risk.SeverityWarning,
				Message:    "Stop-loss risk of $400 uses 40% of the $1,000 daily loss limit",
				Suggestion: "Risk 25%-33% of the daily loss limit per trade to allow multiple attempts per day",
			},
		},
		FirmRules: risk.TierSummary{
			FirmName:         "Topstep",
			AccountSize:      50000,
			ProfitTarget:     3000,
			DailyLossLimit:   &dll,
			MaxDrawdown:      2000,
			DrawdownType:     firms.DrawdownEODTrailing,
			MaxContracts:     map[market.Instrument]int{"ES": 5},
			ConsistencyRule:  0.5,
			AutomationPolicy: firms.AutomationRestricted,
			RulesVersion:     "2024.1",
		},
	}
}

func entryAt(id string, at time.Time) Entry {
	e := NewEntry("topstep", 50000, "ES", "orb", testReport())
	e.RunID = id
	e.CreatedAt = at
	return e
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'validations'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "validations", name)
}

func TestSQLiteRecordAndGet(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	e := entryAt("R1", at)
	require.NoError(t, j.Record(ctx, e))

	got, err := j.Get(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "R1", got.RunID)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.Equal(t, "topstep", got.Firm)
	assert.Equal(t, 50000, got.AccountSize)
	assert.Equal(t, "ES", got.Instrument)
	assert.Equal(t, "orb", got.Strategy)
	assert.Equal(t, risk.StatusWarnings, got.Status)
	assert.True(t, got.IsValid)
	assert.Equal(t, 1, got.Warnings)
	require.NotNil(t, got.Report)
	assert.Equal(t, e.Report, got.Report)
}

func TestSQLiteGetMissing(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	_, err := j.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLiteDuplicateRunID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()
	e := entryAt("R1", time.Now().UTC())
	require.NoError(t, j.Record(ctx, e))
	assert.Error(t, j.Record(ctx, e))
}

func TestSQLiteList(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"A", "B", "C"} {
		require.NoError(t, j.Record(ctx, entryAt(id, base.Add(time.Duration(i)*time.Minute))))
	}

	all, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].RunID)
	assert.Equal(t, "A", all[2].RunID)

	two, err := j.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "C", two[0].RunID)
	assert.Equal(t, "B", two[1].RunID)
}

func TestSQLiteListBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record(ctx, entryAt("early", base.Add(-time.Hour))))
	require.NoError(t, j.Record(ctx, entryAt("first", base)))
	require.NoError(t, j.Record(ctx, entryAt("second", base.Add(30*time.Minute))))
	require.NoError(t, j.Record(ctx, entryAt("end", base.Add(time.Hour))))

	got, err := j.ListBetween(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].RunID)
	assert.Equal(t, "second", got[1].RunID)
}

func TestSQLiteRecordWithoutReport(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	e := NewEntry("ftmo", 10000, "MES", "", nil)
	require.NoError(t, j.Record(ctx, e))

	got, err := j.Get(ctx, e.RunID)
	require.NoError(t, err)
	assert.Nil(t, got.Report)
	assert.Equal(t, "ftmo", got.Firm)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var j Journal = Noop{}
	assert.NoError(t, j.Record(context.Background(), Entry{}))
	assert.NoError(t, j.Close())
}
