package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/infra/db"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

var _ domain.Repository = (*AnalysisRepository)(nil)

const selectColumns = `
SELECT id, owner_id, repo_url, repository, branch, status, score, summary,
       suggestions_json, tech_stack_json, file_insights_json, files_analyzed,
       error, report_url, created_at, updated_at
FROM repository_analyses`

// Save insert/update Analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO repository_analyses
(id, owner_id, repo_url, repository, branch, status, score, summary,
 suggestions_json, tech_stack_json, file_insights_json, files_analyzed,
 error, report_url, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
        $9,$10,$11,$12,
        $13,$14,$15,$16)
ON CONFLICT (id) DO UPDATE SET
 repository = EXCLUDED.repository,
 branch = EXCLUDED.branch,
 status = EXCLUDED.status,
 score = EXCLUDED.score,
 summary = EXCLUDED.summary,
 suggestions_json = EXCLUDED.suggestions_json,
 tech_stack_json = EXCLUDED.tech_stack_json,
 file_insights_json = EXCLUDED.file_insights_json,
 files_analyzed = EXCLUDED.files_analyzed,
 error = EXCLUDED.error,
 report_url = EXCLUDED.report_url,
 updated_at = EXCLUDED.updated_at;`

	row, err := db.Encode(a)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		row.ID, row.OwnerID, row.RepoURL, row.Repository, row.Branch, row.Status, row.Score, row.Summary,
		row.Suggestions, row.TechStack, row.FileInsights, row.FilesAnalyzed,
		row.Error, row.ReportURL, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", a.ID, err)
	}
	return nil
}

// Get by ID + Owner
func (r *AnalysisRepository) Get(ctx context.Context, owner string, id domain.ID) (*domain.Analysis, error) {
	q := selectColumns + `
WHERE owner_id=$1 AND id=$2
LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, owner, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return a, err
}

// Latest analyses per owner
func (r *AnalysisRepository) Latest(ctx context.Context, owner string, limit int) ([]*domain.Analysis, error) {
	q := selectColumns + `
WHERE owner_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, owner, db.Limit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnalysis(s interface{ Scan(...any) error }) (*domain.Analysis, error) {
	var row db.Row
	if err := s.Scan(
		&row.ID, &row.OwnerID, &row.RepoURL, &row.Repository, &row.Branch, &row.Status, &row.Score, &row.Summary,
		&row.Suggestions, &row.TechStack, &row.FileInsights, &row.FilesAnalyzed,
		&row.Error, &row.ReportURL, &row.CreatedAt, &row.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return row.Decode()
}
