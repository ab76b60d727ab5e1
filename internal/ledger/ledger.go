// Package ledger keeps an SQLite index of extraction outcomes, one row per
// filing, so a batch can be audited after the fact.
//
// Usage:
//
//	l, err := ledger.Open("data/mda/ledger.db")
//	defer l.Close()
//	err = l.Record(ctx, ledger.Entry{...})
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Status values stored in the ledger.
const (
	StatusExtracted = "extracted"
	StatusNoMatch   = "no_match"
	StatusSkipped   = "skipped"
	StatusMalformed = "malformed"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	file          TEXT PRIMARY KEY,
	cik           TEXT NOT NULL DEFAULT '',
	form          TEXT NOT NULL DEFAULT '',
	filing_date   TEXT NOT NULL DEFAULT '',
	accession     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	attempts      INTEGER NOT NULL DEFAULT 0,
	retried       INTEGER NOT NULL DEFAULT 0,
	section_bytes INTEGER NOT NULL DEFAULT 0,
	output_path   TEXT NOT NULL DEFAULT '',
	processed_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extractions_status ON extractions(status);
`

// Entry is one filing's outcome.
type Entry struct {
	File         string
	CIK          string
	Form         string
	FilingDate   string
	Accession    string
	Status       string
	Attempts     int
	Retried      bool
	SectionBytes int
	OutputPath   string
	ProcessedAt  time.Time
}

// Ledger wraps the database handle.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path. ":memory:" is accepted.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writes from the one batch goroutine.
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ledger: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: exec schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record upserts e keyed by file name. A zero ProcessedAt is set to now.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now().UTC()
	}
	retried := 0
	if e.Retried {
		retried = 1
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO extractions (file, cik, form, filing_date, accession, status, attempts, retried, section_bytes, output_path, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file) DO UPDATE SET
			cik = excluded.cik,
			form = excluded.form,
			filing_date = excluded.filing_date,
			accession = excluded.accession,
			status = excluded.status,
			attempts = excluded.attempts,
			retried = excluded.retried,
			section_bytes = excluded.section_bytes,
			output_path = excluded.output_path,
			processed_at = excluded.processed_at`,
		e.File, e.CIK, e.Form, e.FilingDate, e.Accession, e.Status, e.Attempts, retried,
		e.SectionBytes, e.OutputPath, e.ProcessedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("ledger: record %s: %w", e.File, err)
	}
	return nil
}

// ErrNotFound is returned by Lookup for unknown files.
var ErrNotFound = errors.New("ledger: entry not found")

// Lookup returns the entry for file.
func (l *Ledger) Lookup(ctx context.Context, file string) (Entry, error) {
	var (
		e       Entry
		retried int
		at      string
	)
	err := l.db.QueryRowContext(ctx, `
		SELECT file, cik, form, filing_date, accession, status, attempts, retried, section_bytes, output_path, processed_at
		FROM extractions WHERE file = ?`, file).
		Scan(&e.File, &e.CIK, &e.Form, &e.FilingDate, &e.Accession, &e.Status, &e.Attempts, &retried,
			&e.SectionBytes, &e.OutputPath, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: lookup %s: %w", file, err)
	}
	e.Retried = retried != 0
	if t, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
		e.ProcessedAt = t
	}
	return e, nil
}

// Counts returns the number of entries per status.
func (l *Ledger) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM extractions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ledger: counts: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("ledger: counts: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}
