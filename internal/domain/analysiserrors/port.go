package analysiserrors

import "context"

// Repository defines persistence for analysis errors
type Repository interface {
	Save(ctx context.Context, e *AnalysisError) error
	ListByAnalysis(ctx context.Context, owner string, analysisID string, limit int) ([]*AnalysisError, error)
}
