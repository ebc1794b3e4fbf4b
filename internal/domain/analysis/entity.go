package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

var (
	// ErrTerminal is returned when a completed or failed record is transitioned again.
	ErrTerminal = errors.New("analysis already finished")
	ErrNotFound = errors.New("analysis not found")
)

// ID tipe untuk Analysis
type ID string

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// MaxSuggestions bounds the persisted suggestion list.
const MaxSuggestions = 20

// FileInsight is one successfully reviewed code file.
type FileInsight struct {
	File      string `json:"file"`
	Analysis  string `json:"analysis"`
	Score     int    `json:"score"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
}

// Aggregate Root: Analysis
type Analysis struct {
	ID            ID                 `json:"id"`
	OwnerID       string             `json:"owner_id"`
	RepoURL       string             `json:"repo_url"`
	Repository    string             `json:"repository,omitempty"` // owner/name
	Branch        string             `json:"branch,omitempty"`
	Status        Status             `json:"status"`
	Score         *int               `json:"score"`
	Summary       string             `json:"summary"`
	Suggestions   []string           `json:"suggestions"`
	TechStack     *techstack.Profile `json:"tech_stack"`
	FileInsights  []FileInsight      `json:"file_insights"`
	FilesAnalyzed int                `json:"files_analyzed"`
	Error         string             `json:"error,omitempty"`
	ReportURL     string             `json:"report_url,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewPending creates the record before any network work starts.
func NewPending(id ID, owner, repoURL string, now time.Time) *Analysis {
	return &Analysis{
		ID:           id,
		OwnerID:      owner,
		RepoURL:      repoURL,
		Status:       StatusPending,
		Suggestions:  []string{},
		TechStack:    techstack.NewProfile(),
		FileInsights: []FileInsight{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Outcome is the payload written on completion.
type Outcome struct {
	Score         int
	Summary       string
	Suggestions   []string
	TechStack     *techstack.Profile
	FileInsights  []FileInsight
	FilesAnalyzed int
}

// Complete moves a pending record to completed.
func (a *Analysis) Complete(o Outcome, now time.Time) error {
	if a.Status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrTerminal, a.ID, a.Status)
	}
	if o.Score < MinScore || o.Score > MaxScore {
		return fmt.Errorf("score %d out of range", o.Score)
	}
	score := o.Score
	a.Status = StatusCompleted
	a.Score = &score
	a.Summary = o.Summary
	a.Suggestions = capSuggestions(o.Suggestions)
	if o.TechStack != nil {
		a.TechStack = o.TechStack
	}
	a.FileInsights = o.FileInsights
	if a.FileInsights == nil {
		a.FileInsights = []FileInsight{}
	}
	a.FilesAnalyzed = o.FilesAnalyzed
	a.UpdatedAt = now
	return nil
}

// Fail moves a pending record to failed. The score stays absent.
func (a *Analysis) Fail(cause error, now time.Time) error {
	if a.Status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrTerminal, a.ID, a.Status)
	}
	a.Status = StatusFailed
	a.Score = nil
	if cause != nil {
		a.Error = cause.Error()
	}
	a.UpdatedAt = now
	return nil
}

func (a *Analysis) Terminal() bool { return a.Status != StatusPending }

func capSuggestions(s []string) []string {
	if len(s) > MaxSuggestions {
		s = s[:MaxSuggestions]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
