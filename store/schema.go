package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  root TEXT NOT NULL,
  ts_utc TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  module_count INTEGER NOT NULL,
  package_count INTEGER NOT NULL,
  file_count INTEGER NOT NULL,
  class_count INTEGER NOT NULL,
  line_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root, ts_utc);

CREATE TABLE IF NOT EXISTS classes (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  full_name TEXT NOT NULL,
  kind TEXT NOT NULL,
  file TEXT NOT NULL,
  first_line INTEGER NOT NULL,
  last_line INTEGER NOT NULL,
  PRIMARY KEY (run_id, full_name)
);

CREATE TABLE IF NOT EXISTS unresolved (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  file TEXT NOT NULL,
  line INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_unresolved_run ON unresolved(run_id, name);

CREATE TABLE IF NOT EXISTS diagnostics (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  file TEXT NOT NULL,
  line INTEGER NOT NULL,
  message TEXT NOT NULL,
  fatal INTEGER NOT NULL
);
`

// EnsureSchema creates the tables if needed and refuses databases written
// by a newer schema.
func EnsureSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("unsupported schema version %d", version)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}
