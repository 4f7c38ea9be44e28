package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/propcheck/risk"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("journal entry not found")

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Record(ctx context.Context, e Entry) error {
	report, err := e.reportJSON()
	if err != nil {
		return err
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO validations
		(run_id, created_at, firm, account_size, instrument, strategy, status, is_valid, warnings, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.CreatedAt.UTC(), e.Firm, e.AccountSize, e.Instrument,
		e.Strategy, string(e.Status), e.IsValid, e.Warnings, report,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.RunID, err)
	}
	return nil
}

const selectEntry = `
	SELECT run_id, created_at, firm, account_size, instrument, strategy, status, is_valid, warnings, report_json
	FROM validations`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e      Entry
		status string
		report string
	)
	if err := s.Scan(
		&e.RunID,
		&e.CreatedAt,
		&e.Firm,
		&e.AccountSize,
		&e.Instrument,
		&e.Strategy,
		&status,
		&e.IsValid,
		&e.Warnings,
		&report,
	); err != nil {
		return Entry{}, err
	}
	e.Status = risk.Status(status)
	e.CreatedAt = e.CreatedAt.UTC()
	if report != "" && report != "null" {
		e.Report = &risk.Report{}
		if err := json.Unmarshal([]byte(report), e.Report); err != nil {
			return Entry{}, fmt.Errorf("decode report %s: %w", e.RunID, err)
		}
	}
	return e, nil
}

// Get returns a single entry by run id.
func (j *SQLite) Get(ctx context.Context, runID string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, selectEntry+` WHERE run_id = ?`, runID)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, runID)
		}
		return Entry{}, err
	}
	return e, nil
}

// List returns the newest entries first. limit <= 0 returns everything.
func (j *SQLite) List(ctx context.Context, limit int) ([]Entry, error) {
	q := selectEntry + ` ORDER BY created_at DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return j.query(ctx, q, args...)
}

// ListBetween returns entries created within [start, end), oldest first.
func (j *SQLite) ListBetween(ctx context.Context, start, end time.Time) ([]Entry, error) {
	return j.query(ctx, selectEntry+`
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, run_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
