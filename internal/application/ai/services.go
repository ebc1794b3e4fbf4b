package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
	"github.com/bryanwahyu/repo-insight/internal/domain/review"
)

const (
	DefaultMaxAttempts  = 3
	DefaultContentLimit = 3000
)

// Service runs the validate-and-retry loop around an ai.Client.
// Service is safe for concurrent use; each call keeps its own attempt state.
type Service struct {
	client       ai.Client
	maxAttempts  int
	contentLimit int
	log          *zap.Logger
}

type Option func(*Service)

func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithContentLimit sets how many characters of a file reach the prompt.
func WithContentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.contentLimit = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(client ai.Client, opts ...Option) *Service {
	s := &Service{
		client:       client,
		maxAttempts:  DefaultMaxAttempts,
		contentLimit: DefaultContentLimit,
		log:          zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Review is a validated reviewer response.
type Review struct {
	Text     string
	Result   review.Result
	Attempts int
}

// Review reviews one file. A transport error ends the loop at once and wraps
// ai.ErrReviewUnavailable; running out of attempts returns ai.ErrReviewInvalid.
func (s *Service) Review(ctx context.Context, path, ext, content string) (Review, error) {
	req := ai.ReviewRequest{Path: path, Extension: ext, Content: Truncate(content, s.contentLimit)}
	attempt := review.NewReviewAttempt(s.maxAttempts)

	for attempt.State() == review.Attempting {
		raw, err := s.client.Review(ctx, req)
		if err != nil {
			return Review{Attempts: attempt.Count() + 1}, fmt.Errorf("%w: %s: %w", ai.ErrReviewUnavailable, path, err)
		}
		if attempt.Record(raw) == review.Attempting {
			s.log.Debug("review rejected, retrying",
				zap.String("path", path),
				zap.Int("attempt", attempt.Count()),
				zap.Error(attempt.Err()))
		}
	}

	if attempt.State() == review.Exhausted {
		return Review{Attempts: attempt.Count()}, fmt.Errorf("%w: %s after %d attempts: %w", ai.ErrReviewInvalid, path, attempt.Count(), attempt.Err())
	}
	return Review{
		Text:     attempt.Text(),
		Result:   review.Parse(attempt.Text()),
		Attempts: attempt.Count(),
	}, nil
}

// Truncate keeps the first n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
