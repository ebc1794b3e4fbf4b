package ai

import "context"

// ReviewRequest is one code file sent to the reviewer. Content is already
// truncated to the configured limit.
type ReviewRequest struct {
	Path      string
	Extension string
	Content   string
}

// Client sends a single user-role prompt and returns the text of the first
// candidate. Implementations wrap transport failures with ErrReviewUnavailable.
type Client interface {
	Review(ctx context.Context, req ReviewRequest) (string, error)
}
