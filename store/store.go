// Package store persists analysis reports in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/themis/java/parser"
	"github.com/dhamidi/themis/project"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Run is the summary row of one stored analysis.
type Run struct {
	ID       string
	Root     string
	Time     time.Time
	Error    string
	Modules  int
	Packages int
	Files    int
	Classes  int
	Lines    int
}

// Class is a declared type as stored.
type Class struct {
	FullName string
	Kind     string
	File     string
	First    int
	Last     int
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("store path %q is a directory, expected file", cleanPath)
	}
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}
	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes the report as a new run and returns its id.
func (s *Store) Save(r *project.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO runs (id, root, ts_utc, error, module_count, package_count, file_count, class_count, line_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Root, time.Now().UTC().Format(time.RFC3339Nano), r.Error,
		r.Modules, r.Packages, r.Files, r.Classes, r.Lines)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	for _, c := range classesOf(r) {
		_, err := tx.Exec(`INSERT OR REPLACE INTO classes (run_id, full_name, kind, file, first_line, last_line) VALUES (?, ?, ?, ?, ?, ?)`,
			id, c.FullName, c.Kind, c.File, c.First, c.Last)
		if err != nil {
			return "", fmt.Errorf("save class %s: %w", c.FullName, err)
		}
	}
	for _, u := range r.Unresolved {
		for _, site := range u.Sites {
			_, err := tx.Exec(`INSERT INTO unresolved (run_id, name, file, line) VALUES (?, ?, ?, ?)`,
				id, u.Name, site.File, site.Line)
			if err != nil {
				return "", fmt.Errorf("save unresolved %s: %w", u.Name, err)
			}
		}
	}
	for _, d := range r.Diagnostics {
		_, err := tx.Exec(`INSERT INTO diagnostics (run_id, file, line, message, fatal) VALUES (?, ?, ?, ?, ?)`,
			id, d.File, d.Line, d.Message, d.Fatal)
		if err != nil {
			return "", fmt.Errorf("save diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

func classesOf(r *project.Report) []Class {
	var out []Class
	for path, f := range r.Parsed {
		parser.Walk(f, func(e parser.Element) bool {
			if c, ok := e.(*parser.Class); ok {
				span := c.Span()
				out = append(out, Class{
					FullName: c.FullName(),
					Kind:     c.Kind().String(),
					File:     path,
					First:    span.First,
					Last:     span.Last,
				})
			}
			return true
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

// Runs returns the stored runs of root, newest first.
func (s *Store) Runs(root string) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, root, ts_utc, error, module_count, package_count, file_count, class_count, line_count
FROM runs WHERE root = ? ORDER BY ts_utc DESC`, root)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var ts string
		if err := rows.Scan(&run.ID, &run.Root, &ts, &run.Error, &run.Modules, &run.Packages, &run.Files, &run.Classes, &run.Lines); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.Time, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse run time %q: %w", ts, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Classes returns the types stored for a run ordered by full name.
func (s *Store) Classes(runID string) ([]Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT full_name, kind, file, first_line, last_line FROM classes WHERE run_id = ? ORDER BY full_name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var out []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.FullName, &c.Kind, &c.File, &c.First, &c.Last); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Unresolved returns the number of references per unresolved name of a run.
func (s *Store) Unresolved(runID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.Query(`SELECT name, COUNT(*) FROM unresolved WHERE run_id = ? GROUP BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan unresolved: %w", err)
		}
		out[name] = n
	}
	return out, rows.Err()
}
