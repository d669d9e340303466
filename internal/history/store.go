// Package history records audit runs in SQLite so score movement can be
// tracked over time. The audit path never reads from here; history is
// additive observation only.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/huiren/geoaudit/internal/audit"
	"github.com/huiren/geoaudit/internal/logging"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

var ErrNotFound = errors.New("audit run not found")

// Entry is one recorded audit run.
type Entry struct {
	ID         string         `json:"id"`
	Target     string         `json:"target"`
	Composite  int            `json:"composite"`
	Categories map[string]int `json:"categories"`
	CreatedAt  time.Time      `json:"created_at"`
	Report     *audit.Report  `json:"report,omitempty"`
}

// Store persists audit runs.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore wraps db and runs migrations from schema.sql.
func NewStore(db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		logger = logging.Nop{}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	return &Store{db: db, logger: logger.With(logging.Field{Key: "component", Value: "history"})}, nil
}

// Open opens (creating directories as needed) the SQLite database at path
// and returns a Store over it.
func Open(path string, logger logging.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	store, err := NewStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// DefaultPath is where the CLI keeps its history database.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "geoaudit", "history.db")
	}
	return filepath.Join(".", "geoaudit-history.db")
}

func (s *Store) Close() error { return s.db.Close() }

// Record stores a report and returns the persisted entry.
func (s *Store) Record(ctx context.Context, report *audit.Report) (*Entry, error) {
	entry := &Entry{
		ID:         uuid.New().String(),
		Target:     report.Target,
		Composite:  report.Composite,
		Categories: make(map[string]int, len(report.Categories)),
		CreatedAt:  time.Now().UTC(),
		Report:     report,
	}
	for _, cs := range report.Categories {
		entry.Categories[string(cs.Category)] = cs.Earned
	}

	catJSON, err := json.Marshal(entry.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}
	repJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audits (id, target, composite, categories, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Target, entry.Composite, string(catJSON), string(repJSON), entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert audit run: %w", err)
	}

	s.logger.Info("audit run recorded",
		logging.Field{Key: "id", Value: entry.ID},
		logging.Field{Key: "target", Value: entry.Target},
		logging.Field{Key: "composite", Value: entry.Composite})
	return entry, nil
}

// List returns runs for a target, newest first. A zero limit means all.
func (s *Store) List(ctx context.Context, target string, limit int) ([]Entry, error) {
	query := `SELECT id, target, composite, categories, created_at
	          FROM audits WHERE target = ? ORDER BY created_at DESC`
	args := []any{target}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var catJSON string
		if err := rows.Scan(&e.ID, &e.Target, &e.Composite, &catJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit run: %w", err)
		}
		if err := json.Unmarshal([]byte(catJSON), &e.Categories); err != nil {
			return nil, fmt.Errorf("decode categories for %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one run with its full report.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	var catJSON, repJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, target, composite, categories, report, created_at
		 FROM audits WHERE id = ?`, id).
		Scan(&e.ID, &e.Target, &e.Composite, &catJSON, &repJSON, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audit run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(catJSON), &e.Categories); err != nil {
		return nil, fmt.Errorf("decode categories for %s: %w", id, err)
	}
	var report audit.Report
	if err := json.Unmarshal([]byte(repJSON), &report); err != nil {
		return nil, fmt.Errorf("decode report for %s: %w", id, err)
	}
	e.Report = &report
	return &e, nil
}
