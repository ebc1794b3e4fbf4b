package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS repository_analyses (
  id                 TEXT        PRIMARY KEY,
  owner_id           TEXT        NOT NULL,
  repo_url           TEXT        NOT NULL,
  repository         TEXT        NOT NULL DEFAULT '',
  branch             TEXT        NOT NULL DEFAULT '',
  status             TEXT        NOT NULL,
  score              SMALLINT    NULL CHECK (score BETWEEN 1 AND 10),
  summary            TEXT        NOT NULL DEFAULT '',
  suggestions_json   JSONB       NOT NULL DEFAULT '[]',
  tech_stack_json    JSONB       NOT NULL DEFAULT '{}',
  file_insights_json JSONB       NOT NULL DEFAULT '[]',
  files_analyzed     INTEGER     NOT NULL DEFAULT 0,
  error              TEXT        NOT NULL DEFAULT '',
  report_url         TEXT        NOT NULL DEFAULT '',
  created_at         TIMESTAMPTZ NOT NULL,
  updated_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_owner_created ON repository_analyses (owner_id, created_at DESC);
CREATE TABLE IF NOT EXISTS repository_analysis_errors (
  id          BIGSERIAL   PRIMARY KEY,
  owner_id    TEXT        NOT NULL,
  analysis_id TEXT        NOT NULL,
  path        TEXT        NOT NULL DEFAULT '',
  phase       TEXT        NOT NULL,
  message     TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_errors_run ON repository_analysis_errors (owner_id, analysis_id, created_at DESC);
`

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
