package analysiserrors

import "time"

// Phase names the pipeline stage a skip happened in.
type Phase string

const (
	PhaseManifest Phase = "manifest" // unreadable or unparseable manifest
	PhaseFetch    Phase = "fetch"    // file content could not be fetched
	PhaseReview   Phase = "review"   // reviewer unavailable
	PhaseValidate Phase = "validate" // reviewer output invalid after retries
	PhaseArchive  Phase = "archive"  // report archive upload
)

// AnalysisError represents a persisted, recoverable per-file failure of one run
type AnalysisError struct {
	ID         int64     `json:"id"`
	OwnerID    string    `json:"owner_id"`
	AnalysisID string    `json:"analysis_id"`
	Path       string    `json:"path,omitempty"`
	Phase      Phase     `json:"phase"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
