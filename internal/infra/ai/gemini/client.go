package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
	"github.com/bryanwahyu/repo-insight/internal/infra/ai/prompt"
)

const (
	defaultModel     = "gemini-2.0-flash"
	defaultMaxTokens = 2048
)

type Client struct {
	client      *genai.Client
	Model       string
	Temperature float32
	MaxTokens   int32
}

// NewClient creates a Gemini API client. baseURL is only set in tests.
func NewClient(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{client: c, Model: model, Temperature: 0.2, MaxTokens: defaultMaxTokens}, nil
}

var _ ai.Client = (*Client)(nil)

func (c *Client) Review(ctx context.Context, req ai.ReviewRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.ReviewPrompt(req), genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.Temperature),
		MaxOutputTokens: c.MaxTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.Model, contents, cfg)
	if err != nil {
		if isQuota(err) {
			return "", fmt.Errorf("%w: %w: %v", ai.ErrReviewUnavailable, ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: generate content: %w", ai.ErrReviewUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates returned", ai.ErrReviewUnavailable)
	}

	// only the first candidate is used
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

func isQuota(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
