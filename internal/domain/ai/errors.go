package ai

import "errors"

var (
	// ErrReviewUnavailable is a transport-level failure; the file is not retried.
	ErrReviewUnavailable = errors.New("ai review unavailable")
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	// ErrReviewInvalid means every attempt broke the output-format contract.
	ErrReviewInvalid = errors.New("ai review invalid")
)
