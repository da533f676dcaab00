// Package baseline stores accepted lint findings in SQLite so that later
// runs only report new problems.
//
// Findings are matched by fingerprint: the file path, reporting rule,
// description and the source text under the problem's range. Offsets are
// left out so that edits elsewhere in a file do not invalidate entries.
package baseline

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/ttcnlint/pkg/lint"
)

// ErrNotOpen is returned when the store has no database connection.
var ErrNotOpen = errors.New("baseline database not opened")

// Entry is one accepted finding.
type Entry struct {
	Fingerprint string
	Path        string
	Reporter    string
	Description string
}

// Set holds the fingerprints of a baseline.
type Set map[string]bool

// Fingerprint identifies a problem of the file at path with source src.
func Fingerprint(path, src string, p lint.Problem) string {
	h := sha256.New()
	for _, part := range []string{path, p.Reporter, p.Description, p.Range.Text(src)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EntriesFor converts the problems of one file into baseline entries.
func EntriesFor(path, src string, problems lint.ProblemSet) []Entry {
	out := make([]Entry, 0, problems.Len())
	for _, p := range problems.Sorted() {
		out = append(out, Entry{
			Fingerprint: Fingerprint(path, src, p),
			Path:        path,
			Reporter:    p.Reporter,
			Description: p.Description,
		})
	}
	return out
}

// Filter returns the problems not covered by the baseline and how many
// were suppressed. A nil Set suppresses nothing.
func (s Set) Filter(path, src string, problems lint.ProblemSet) (lint.ProblemSet, int) {
	if len(s) == 0 {
		return problems, 0
	}
	kept := lint.NewProblemSet()
	suppressed := 0
	for rng, p := range problems {
		if s[Fingerprint(path, src, p)] {
			suppressed++
			continue
		}
		kept[rng] = p
	}
	return kept, suppressed
}

// Store is a SQLite backed baseline.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the baseline database at path, creating and migrating it as
// needed. Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// NewWithDB wraps an existing, already migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Path returns the database path given to Open.
func (s *Store) Path() string { return s.path }

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	return Version(s.db)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Replace discards the stored baseline and records entries as the new
// one. It returns the id of the recording run.
func (s *Store) Replace(ctx context.Context, entries []Entry) (string, error) {
	if s.db == nil {
		return "", ErrNotOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"entries", "runs"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return "", fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	runID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, entries) VALUES (?, ?, ?)`,
		runID, time.Now().UTC(), len(entries),
	); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO entries (fingerprint, path, reporter, description, run_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Fingerprint, e.Path, e.Reporter, e.Description, runID); err != nil {
			return "", fmt.Errorf("failed to insert entry for %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit baseline: %w", err)
	}
	return runID, nil
}

// Load returns the fingerprints of the stored baseline.
func (s *Store) Load(ctx context.Context) (Set, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `SELECT fingerprint FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to query baseline: %w", err)
	}
	defer rows.Close()

	set := Set{}
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		set[fp] = true
	}
	return set, rows.Err()
}

// Entries lists the stored entries ordered by path and reporter.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, path, reporter, description FROM entries ORDER BY path, reporter, description`)
	if err != nil {
		return nil, fmt.Errorf("failed to query baseline: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Fingerprint, &e.Path, &e.Reporter, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
