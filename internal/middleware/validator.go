package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Input validation utilities

const maxRepoURLLength = 2048

var ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9_.@-]{1,128}$`)

// ValidateRepoURL checks the request field only; the pipeline parses it.
func ValidateRepoURL(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fmt.Errorf("repoUrl is required")
	}
	if len(s) > maxRepoURLLength {
		return fmt.Errorf("repoUrl exceeds %d characters", maxRepoURLLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("repoUrl contains invalid characters")
		}
	}
	return nil
}

// ValidateOwnerID validates owner ID format
func ValidateOwnerID(owner string) error {
	if owner == "" {
		return fmt.Errorf("owner ID cannot be empty")
	}
	if !ownerPattern.MatchString(owner) {
		return fmt.Errorf("invalid owner ID format (alphanumeric, dot, at, dash, underscore only, max 128 chars)")
	}
	return nil
}

// ValidateAnalysisID accepts canonical UUIDs only.
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	u, err := uuid.Parse(id)
	if err != nil || u.String() != strings.ToLower(id) {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
