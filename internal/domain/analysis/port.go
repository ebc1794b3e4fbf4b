package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, owner string, id ID) (*Analysis, error)
	Latest(ctx context.Context, owner string, limit int) ([]*Analysis, error)
}

// ReportStore port (interface untuk arsip laporan)
type ReportStore interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}
