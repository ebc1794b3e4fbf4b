package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS repository_analyses (
  id                 VARCHAR(36)  NOT NULL PRIMARY KEY,
  owner_id           VARCHAR(128) NOT NULL,
  repo_url           VARCHAR(512) NOT NULL,
  repository         VARCHAR(255) NOT NULL DEFAULT '',
  branch             VARCHAR(255) NOT NULL DEFAULT '',
  status             VARCHAR(16)  NOT NULL,
  score              TINYINT      NULL,
  summary            TEXT         NOT NULL,
  suggestions_json   JSON         NOT NULL,
  tech_stack_json    JSON         NOT NULL,
  file_insights_json LONGTEXT     NOT NULL,
  files_analyzed     INT          NOT NULL DEFAULT 0,
  error              TEXT         NOT NULL,
  report_url         VARCHAR(1024) NOT NULL DEFAULT '',
  created_at         DATETIME(6)  NOT NULL,
  updated_at         DATETIME(6)  NOT NULL,
  KEY idx_analyses_owner_created (owner_id, created_at)
)`,
	`CREATE TABLE IF NOT EXISTS repository_analysis_errors (
  id          BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
  owner_id    VARCHAR(128) NOT NULL,
  analysis_id VARCHAR(36)  NOT NULL,
  path        VARCHAR(1024) NOT NULL DEFAULT '',
  phase       VARCHAR(16)  NOT NULL,
  message     TEXT         NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  KEY idx_analysis_errors_run (owner_id, analysis_id, created_at)
)`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql migrate: %w", err)
		}
	}
	return nil
}
