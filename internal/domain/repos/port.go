package repos

import "context"

// Host port: read-only access to the repository host.
type Host interface {
	// ResolveBranch fills the default branch of the locator.
	ResolveBranch(ctx context.Context, loc Locator) (Locator, error)
	// Tree returns the full recursive listing of loc.Branch.
	Tree(ctx context.Context, loc Locator) ([]TreeEntry, error)
	// Content returns the decoded text of one file.
	Content(ctx context.Context, loc Locator, path string) (string, error)
}
