package ollama

import (
	"context"
	"fmt"
	"net/url"

	"github.com/JexSrs/go-ollama"

	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
	"github.com/bryanwahyu/repo-insight/internal/infra/ai/prompt"
)

const defaultHost = "http://localhost:11434"

// Client reviews files with a local Ollama model.
type Client struct {
	client *ollama.Ollama
	model  string
}

func NewClient(host, model string) (*Client, error) {
	if host == "" {
		host = defaultHost
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}
	return &Client{client: ollama.New(*u), model: model}, nil
}

var _ ai.Client = (*Client)(nil)

// Review uses the single-shot Generate call. The library takes no context, so
// cancellation is only checked before the request.
func (c *Client) Review(ctx context.Context, req ai.ReviewRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrReviewUnavailable, err)
	}
	res, err := c.client.Generate(
		c.client.Generate.WithModel(c.model),
		c.client.Generate.WithPrompt(prompt.ReviewPrompt(req)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: ollama generate: %w", ai.ErrReviewUnavailable, err)
	}
	if !res.Done {
		return "", fmt.Errorf("%w: ollama response not finished", ai.ErrReviewUnavailable)
	}
	return res.Response, nil
}
