package repos

import "errors"

// Fatal for the run.
var (
	ErrInvalidRepository     = errors.New("invalid repository")
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	ErrTreeUnavailable       = errors.New("repository tree unavailable")
)

// ErrFileFetchFailed only skips the affected file.
var ErrFileFetchFailed = errors.New("file fetch failed")
