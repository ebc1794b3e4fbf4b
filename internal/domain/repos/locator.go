package repos

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,100}$`)

// Locator identifies one repository on the host. Branch is empty until the
// host resolves the default branch.
type Locator struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Branch string `json:"branch,omitempty"`
}

// FullName returns "owner/name".
func (l Locator) FullName() string {
	return l.Owner + "/" + l.Name
}

// URL is the canonical web URL of the repository.
func (l Locator) URL() string {
	return "https://github.com/" + l.FullName()
}

// ParseLocator accepts https://github.com/owner/repo[.git][/...], github.com/owner/repo,
// git@github.com:owner/repo.git and the short owner/repo form.
func ParseLocator(raw string) (Locator, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Locator{}, fmt.Errorf("%w: empty repository url", ErrInvalidRepository)
	}

	var path string
	switch {
	case strings.HasPrefix(s, "git@"):
		// git@github.com:owner/repo.git
		i := strings.Index(s, ":")
		if i < 0 {
			return Locator{}, fmt.Errorf("%w: %q", ErrInvalidRepository, raw)
		}
		path = s[i+1:]
	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return Locator{}, fmt.Errorf("%w: %v", ErrInvalidRepository, err)
		}
		if u.Scheme != "https" && u.Scheme != "http" {
			return Locator{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidRepository, u.Scheme)
		}
		if u.Host == "" {
			return Locator{}, fmt.Errorf("%w: missing host", ErrInvalidRepository)
		}
		path = u.Path
	case strings.HasPrefix(s, "github.com/"):
		path = strings.TrimPrefix(s, "github.com/")
	default:
		path = s
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return Locator{}, fmt.Errorf("%w: expected owner/name in %q", ErrInvalidRepository, raw)
	}
	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	if !segmentPattern.MatchString(owner) || !segmentPattern.MatchString(name) {
		return Locator{}, fmt.Errorf("%w: malformed owner/name in %q", ErrInvalidRepository, raw)
	}
	if name == "." || name == ".." || owner == "." || owner == ".." {
		return Locator{}, fmt.Errorf("%w: malformed owner/name in %q", ErrInvalidRepository, raw)
	}
	return Locator{Owner: owner, Name: name}, nil
}
