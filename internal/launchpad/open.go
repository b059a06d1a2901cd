package launchpad

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// Config locates the engine store.
type Config struct {
	Path string `yaml:"path"`
}

// LoadConfig reads a launchpad configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read launchpad config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse launchpad config %s: %w", path, err)
	}
	if cfg.Path == "" {
		return Config{}, fmt.Errorf("launchpad config %s: path is required", path)
	}
	return cfg, nil
}

// LaunchPad is a handle on the engine store.
type LaunchPad struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates if needed) the store at path and ensures the
// required tables exist.
func Open(ctx context.Context, path string) (*LaunchPad, error) {
	if path == "" {
		return nil, fmt.Errorf("launchpad path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create launchpad directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open launchpad: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &LaunchPad{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (lp *LaunchPad) Close() error {
	return lp.db.Close()
}

// bootstrap creates tables and indexes if missing.
func bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS workflows (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  metadata   JSON NOT NULL DEFAULT '{}',
  created_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS fireworks (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  workflow_id TEXT NOT NULL REFERENCES workflows(id),
  seq         INTEGER NOT NULL,
  name        TEXT NOT NULL,
  spec        JSON NOT NULL,
  tasks       JSON NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS links (
  workflow_id TEXT NOT NULL REFERENCES workflows(id),
  from_fw     INTEGER NOT NULL REFERENCES fireworks(id),
  to_fw       INTEGER NOT NULL REFERENCES fireworks(id)
);`,
		`CREATE TABLE IF NOT EXISTS launches (
  id           TEXT PRIMARY KEY,
  fw_id        INTEGER NOT NULL REFERENCES fireworks(id),
  dir          TEXT NOT NULL,
  runtime_secs REAL NOT NULL DEFAULT 0,
  state        TEXT NOT NULL,
  archived     INTEGER NOT NULL DEFAULT 0,
  started_at   TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS results (
  id          TEXT PRIMARY KEY,
  workflow_id TEXT NOT NULL REFERENCES workflows(id),
  kind        TEXT NOT NULL,
  document    JSON NOT NULL,
  created_at  TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS fireworks_workflow_seq_idx ON fireworks(workflow_id, seq);`,
		`CREATE INDEX IF NOT EXISTS launches_fw_idx ON launches(fw_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap launchpad: %w", err)
		}
	}
	return nil
}
