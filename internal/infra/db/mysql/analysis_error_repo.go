package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/repo-insight/internal/domain/analysiserrors"
	"github.com/bryanwahyu/repo-insight/internal/infra/db"
)

type AnalysisErrorRepository struct {
	db *sql.DB
}

func NewAnalysisErrorRepository(db *sql.DB) *AnalysisErrorRepository {
	return &AnalysisErrorRepository{db: db}
}

var _ domain.Repository = (*AnalysisErrorRepository)(nil)

func (r *AnalysisErrorRepository) Save(ctx context.Context, e *domain.AnalysisError) error {
	const q = `
INSERT INTO repository_analysis_errors
  (owner_id, analysis_id, path, phase, message, created_at)
VALUES (?,?,?,?,?,?)
`
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, q,
		db.StringOrDash(e.OwnerID), db.StringOrDash(e.AnalysisID), e.Path,
		db.StringOrDash(string(e.Phase)), msg, created)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

func (r *AnalysisErrorRepository) ListByAnalysis(ctx context.Context, owner string, analysisID string, limit int) ([]*domain.AnalysisError, error) {
	const q = `
SELECT id, owner_id, analysis_id, path, phase, message, created_at
FROM repository_analysis_errors
WHERE owner_id = ? AND analysis_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, owner, analysisID, db.Limit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.AnalysisError{}
	for rows.Next() {
		var e domain.AnalysisError
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.AnalysisID, &e.Path, &e.Phase, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
