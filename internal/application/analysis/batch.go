package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	appai "github.com/bryanwahyu/repo-insight/internal/application/ai"
	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
	domain "github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/domain/analysiserrors"
	"github.com/bryanwahyu/repo-insight/internal/domain/repos"
	"github.com/bryanwahyu/repo-insight/internal/domain/review"
	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

// DefaultBatchSize bounds outstanding requests against the host and the reviewer.
const DefaultBatchSize = 10

// Batches splits items into consecutive groups of at most n.
func Batches[T any](items []T, n int) [][]T {
	if n <= 0 {
		n = DefaultBatchSize
	}
	var out [][]T
	for len(items) > 0 {
		k := min(n, len(items))
		out = append(out, items[:k:k])
		items = items[k:]
	}
	return out
}

// fileOutcome is what one review task hands back. Tasks never touch shared
// state; the caller merges outcomes after the batch joins.
type fileOutcome struct {
	insight  *domain.FileInsight
	result   review.Result
	delta    *techstack.Profile
	findings []techstack.Finding
	skip     *analysiserrors.AnalysisError
}

// runBatch reviews every file of the batch in parallel and waits for all of them.
func (s *Service) runBatch(ctx context.Context, run *runState, batch []repos.FileCandidate) []fileOutcome {
	out := make([]fileOutcome, len(batch))
	var g errgroup.Group
	for i, fc := range batch {
		g.Go(func() error {
			out[i] = s.reviewFile(ctx, run, fc)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Service) reviewFile(ctx context.Context, run *runState, fc repos.FileCandidate) fileOutcome {
	content, err := s.Host.Content(ctx, run.locator, fc.Path)
	if err != nil {
		return fileOutcome{skip: run.skip(fc.Path, analysiserrors.PhaseFetch, err)}
	}
	if strings.TrimSpace(content) == "" {
		return fileOutcome{skip: run.skip(fc.Path, analysiserrors.PhaseFetch, fmt.Errorf("%w: empty content", repos.ErrFileFetchFailed))}
	}

	// code-content detection reuses the fetched content, no extra request
	delta, findings := s.Detector.DetectCode(fc.Path, fc.Extension, content)
	res := fileOutcome{delta: delta, findings: findings}

	rv, err := s.Reviewer.Review(ctx, fc.Path, fc.Extension, content)
	if err != nil {
		phase := analysiserrors.PhaseReview
		if errors.Is(err, ai.ErrReviewInvalid) {
			phase = analysiserrors.PhaseValidate
		}
		res.skip = run.skip(fc.Path, phase, err)
		return res
	}

	res.result = rv.Result
	res.insight = &domain.FileInsight{
		File:      fc.Path,
		Analysis:  rv.Text,
		Score:     rv.Result.Score,
		Size:      fc.Size,
		Extension: fc.Extension,
	}
	return res
}

// Reviewer is the validate-and-retry reviewer the orchestrator depends on.
type Reviewer interface {
	Review(ctx context.Context, path, ext, content string) (appai.Review, error)
}
