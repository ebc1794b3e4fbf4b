// Package db holds the column codecs shared by the SQL adapters.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

// Row is the flattened shape of one analyses row.
type Row struct {
	ID            string
	OwnerID       string
	RepoURL       string
	Repository    string
	Branch        string
	Status        string
	Score         sql.NullInt64
	Summary       string
	Suggestions   string
	TechStack     string
	FileInsights  string
	FilesAnalyzed int
	Error         string
	ReportURL     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Encode flattens a record into column values. JSON columns are never empty.
func Encode(a *analysis.Analysis) (Row, error) {
	r := Row{
		ID:            string(a.ID),
		OwnerID:       StringOrDash(a.OwnerID),
		RepoURL:       a.RepoURL,
		Repository:    a.Repository,
		Branch:        a.Branch,
		Status:        StringOrDash(string(a.Status)),
		Summary:       a.Summary,
		FilesAnalyzed: a.FilesAnalyzed,
		Error:         a.Error,
		ReportURL:     a.ReportURL,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Score != nil {
		r.Score = sql.NullInt64{Int64: int64(*a.Score), Valid: true}
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}

	var err error
	if r.Suggestions, err = jsonColumn(a.Suggestions, "[]"); err != nil {
		return Row{}, fmt.Errorf("encode suggestions: %w", err)
	}
	if r.TechStack, err = jsonColumn(a.TechStack, "{}"); err != nil {
		return Row{}, fmt.Errorf("encode tech stack: %w", err)
	}
	if r.FileInsights, err = jsonColumn(a.FileInsights, "[]"); err != nil {
		return Row{}, fmt.Errorf("encode file insights: %w", err)
	}
	return r, nil
}

// Decode rebuilds the record from a scanned row.
func (r Row) Decode() (*analysis.Analysis, error) {
	a := &analysis.Analysis{
		ID:            analysis.ID(r.ID),
		OwnerID:       r.OwnerID,
		RepoURL:       r.RepoURL,
		Repository:    r.Repository,
		Branch:        r.Branch,
		Status:        analysis.Status(r.Status),
		Summary:       r.Summary,
		FilesAnalyzed: r.FilesAnalyzed,
		Error:         r.Error,
		ReportURL:     r.ReportURL,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Suggestions:   []string{},
		TechStack:     techstack.NewProfile(),
		FileInsights:  []analysis.FileInsight{},
	}
	if r.Score.Valid {
		s := int(r.Score.Int64)
		a.Score = &s
	}
	if err := unmarshalColumn(r.Suggestions, &a.Suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions of %s: %w", r.ID, err)
	}
	if err := unmarshalColumn(r.TechStack, a.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech stack of %s: %w", r.ID, err)
	}
	if err := unmarshalColumn(r.FileInsights, &a.FileInsights); err != nil {
		return nil, fmt.Errorf("decode file insights of %s: %w", r.ID, err)
	}
	return a, nil
}

// StringOrDash returns "-" when the input is empty/whitespace
func StringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Limit falls back to 20 for non-positive page sizes.
func Limit(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

func jsonColumn(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if s := string(b); s != "null" {
		return s, nil
	}
	return empty, nil
}

func unmarshalColumn(s string, dst any) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}
