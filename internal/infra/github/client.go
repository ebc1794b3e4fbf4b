package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v61/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/bryanwahyu/repo-insight/internal/domain/repos"
)

// Client implements repos.Host against the GitHub REST API.
type Client struct {
	gh  *gh.Client
	log *zap.Logger
}

// New builds a client. An empty token means unauthenticated (low rate limit);
// a non-empty baseURL targets GitHub Enterprise.
func New(ctx context.Context, token, baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = timeout
	}
	c := gh.NewClient(httpClient)
	if baseURL != "" {
		var err error
		c, err = c.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
	}
	return NewWithClient(c, log), nil
}

func NewWithClient(c *gh.Client, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gh: c, log: log}
}

var _ repos.Host = (*Client)(nil)

// ResolveBranch reads repository metadata and fills the default branch.
func (c *Client) ResolveBranch(ctx context.Context, loc repos.Locator) (repos.Locator, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, loc.Owner, loc.Name)
	if err != nil {
		return loc, fmt.Errorf("%w: %s: %s", repos.ErrRepositoryUnavailable, loc.FullName(), describe(err))
	}
	loc.Branch = repo.GetDefaultBranch()
	if loc.Branch == "" {
		return loc, fmt.Errorf("%w: %s has no default branch", repos.ErrRepositoryUnavailable, loc.FullName())
	}
	return loc, nil
}

// Tree lists the full recursive tree of loc.Branch.
func (c *Client) Tree(ctx context.Context, loc repos.Locator) ([]repos.TreeEntry, error) {
	tree, _, err := c.gh.Git.GetTree(ctx, loc.Owner, loc.Name, loc.Branch, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s@%s: %s", repos.ErrTreeUnavailable, loc.FullName(), loc.Branch, describe(err))
	}
	if tree.GetTruncated() {
		c.log.Warn("tree listing truncated by host",
			zap.String("repo", loc.FullName()),
			zap.Int("entries", len(tree.Entries)))
	}
	out := make([]repos.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		out = append(out, repos.TreeEntry{
			Path: e.GetPath(),
			Type: repos.EntryType(e.GetType()),
			Size: int64(e.GetSize()),
		})
	}
	return out, nil
}

// Content fetches and decodes one file at loc.Branch.
func (c *Client) Content(ctx context.Context, loc repos.Locator, path string) (string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: loc.Branch}
	file, _, _, err := c.gh.Repositories.GetContents(ctx, loc.Owner, loc.Name, path, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %s", repos.ErrFileFetchFailed, path, describe(err))
	}
	if file == nil {
		return "", fmt.Errorf("%w: %s is a directory", repos.ErrFileFetchFailed, path)
	}
	text, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("%w: %s: decode: %v", repos.ErrFileFetchFailed, path, err)
	}
	return text, nil
}

// describe turns API errors into short messages without echoing request URLs.
func describe(err error) string {
	var rl *gh.RateLimitError
	if errors.As(err, &rl) {
		return "rate limited until " + rl.Rate.Reset.Time.Format(time.RFC3339)
	}
	var abuse *gh.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return "secondary rate limit"
	}
	var resp *gh.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = http.StatusText(resp.Response.StatusCode)
		}
		return fmt.Sprintf("status %d: %s", resp.Response.StatusCode, msg)
	}
	return err.Error()
}
