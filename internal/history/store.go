// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a record of every dispatched invocation in a
// local SQLite database and serves last-used defaults for the next one.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/panpipe/pkg/types"
)

const (
	dbFile     = "panpipe.db"
	exportFile = "export.yaml"
)

// Store manages the invocation history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the history database at
// cfg.HistoryDir/panpipe.db, creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.HistoryDir
	if dir == "" {
		dir = "history"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invocations (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT,
			from_format TEXT,
			to_format TEXT,
			args TEXT,
			output_path TEXT,
			exit_code INTEGER,
			outcome TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_created ON invocations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_outcome ON invocations(outcome)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Entry is one persisted invocation record.
type Entry struct {
	ID         string            `json:"id" yaml:"id"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
	Source     string            `json:"source" yaml:"source"`
	FromFormat string            `json:"from_format" yaml:"from_format"`
	ToFormat   string            `json:"to_format" yaml:"to_format"`
	Args       []string          `json:"args" yaml:"args"`
	OutputPath string            `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	ExitCode   int               `json:"exit_code" yaml:"exit_code"`
	Outcome    types.OutcomeKind `json:"outcome" yaml:"outcome"`
}

// FromResult builds an Entry from a completed, routed invocation.
func FromResult(res types.Result, outcome types.OutcomeKind) Entry {
	inv := res.Invocation
	return Entry{
		ID:         inv.ID,
		CreatedAt:  inv.CreatedAt,
		Source:     inv.Source.Describe(),
		FromFormat: inv.FromFormat,
		ToFormat:   inv.ToFormat,
		Args:       inv.Args,
		OutputPath: inv.OutputPath,
		ExitCode:   res.ExitCode,
		Outcome:    outcome,
	}
}

// Record persists one entry. Recording the same invocation ID twice
// replaces the earlier row.
func (s *Store) Record(ctx context.Context, e Entry) error {
	argsJSON, _ := json.Marshal(e.Args)
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO invocations
		 (id, created_at, source, from_format, to_format, args, output_path, exit_code, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, created.UTC().Format(time.RFC3339Nano), e.Source,
		e.FromFormat, e.ToFormat, string(argsJSON),
		e.OutputPath, e.ExitCode, string(e.Outcome),
	)
	if err != nil {
		return fmt.Errorf("recording invocation %s: %w", e.ID, err)
	}
	return nil
}

// ListOptions filters a history listing.
type ListOptions struct {
	// ToFormat filters by output format when non-empty.
	ToFormat string
	// Outcome filters by outcome kind when non-empty.
	Outcome types.OutcomeKind
	// Limit caps the number of entries; 0 uses the store default.
	Limit int
}

// List returns entries newest-first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `SELECT id, created_at, source, from_format, to_format, args, output_path, exit_code, outcome
	          FROM invocations`
	var conds []string
	var params []any
	if opts.ToFormat != "" {
		conds = append(conds, "to_format = ?")
		params = append(params, opts.ToFormat)
	}
	if opts.Outcome != "" {
		conds = append(conds, "outcome = ?")
		params = append(params, string(opts.Outcome))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	params = append(params, limit)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastUsed returns the from/to formats and output directory of the most
// recent successful invocation, for defaulting the next one. ok is false
// when no successful invocation exists yet.
func (s *Store) LastUsed(ctx context.Context) (from, to, outDir string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT from_format, to_format, output_path FROM invocations
		 WHERE outcome != ? ORDER BY created_at DESC LIMIT 1`,
		string(types.OutcomeError),
	)
	var outputPath string
	switch err := row.Scan(&from, &to, &outputPath); err {
	case nil:
		if outputPath != "" {
			outDir = filepath.Dir(outputPath)
		}
		return from, to, outDir, true, nil
	case sql.ErrNoRows:
		return "", "", "", false, nil
	default:
		return "", "", "", false, fmt.Errorf("querying last-used defaults: %w", err)
	}
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var created, argsJSON, outcome string
	if err := rows.Scan(&e.ID, &created, &e.Source, &e.FromFormat, &e.ToFormat,
		&argsJSON, &e.OutputPath, &e.ExitCode, &outcome); err != nil {
		return Entry{}, fmt.Errorf("scanning history row: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		e.CreatedAt = t
	}
	if argsJSON != "" {
		_ = json.Unmarshal([]byte(argsJSON), &e.Args)
	}
	e.Outcome = types.OutcomeKind(outcome)
	return e, nil
}
