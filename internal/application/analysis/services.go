package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/repo-insight/internal/application"
	domain "github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/domain/analysiserrors"
	"github.com/bryanwahyu/repo-insight/internal/domain/repos"
	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

// Service implements use-cases untuk Analysis.
// One Run owns its record; concurrent Runs share nothing but the ports.
type Service struct {
	Repo      domain.Repository
	Errors    analysiserrors.Repository // optional
	Reports   domain.ReportStore        // optional
	Host      repos.Host
	Reviewer  Reviewer
	Detector  *techstack.Detector
	Clock     application.Clock
	Log       *zap.Logger
	BatchSize int
	Metrics   Metrics // optional
}

// Metrics receives run lifecycle events.
type Metrics interface {
	AnalysisStarted()
	AnalysisFinished(status domain.Status)
}

// Command untuk menjalankan analisis
type RunCommand struct {
	OwnerID string
	RepoURL string
}

type RunResult struct {
	ID             string   `json:"analysisId"`
	Score          int      `json:"score"`
	FilesAnalyzed  int      `json:"filesAnalyzed"`
	Languages      []string `json:"languages"`
	Frameworks     []string `json:"frameworks"`
	SecurityIssues int      `json:"securityIssues"`

	Analysis *domain.Analysis `json:"-"`
}

// runState is per-run context shared read-only with review tasks.
type runState struct {
	svc     *Service
	record  *domain.Analysis
	locator repos.Locator
}

func (r *runState) skip(path string, phase analysiserrors.Phase, err error) *analysiserrors.AnalysisError {
	r.svc.logger().Warn("file skipped",
		zap.String("analysis_id", string(r.record.ID)),
		zap.String("path", path),
		zap.String("phase", string(phase)),
		zap.Error(err))
	return &analysiserrors.AnalysisError{
		OwnerID:    r.record.OwnerID,
		AnalysisID: string(r.record.ID),
		Path:       path,
		Phase:      phase,
		Message:    err.Error(),
		CreatedAt:  r.svc.now(),
	}
}

// Run jalankan pipeline: simpan pending → tree → klasifikasi → manifest → review per batch → skor → simpan
func (s *Service) Run(ctx context.Context, cmd RunCommand) (RunResult, error) {
	rec := domain.NewPending(domain.ID(uuid.New().String()), cmd.OwnerID, cmd.RepoURL, s.now())
	if err := s.Repo.Save(ctx, rec); err != nil {
		return RunResult{ID: string(rec.ID)}, fmt.Errorf("create analysis: %w", err)
	}
	if s.Metrics != nil {
		s.Metrics.AnalysisStarted()
	}
	log := s.logger().With(zap.String("analysis_id", string(rec.ID)), zap.String("owner", cmd.OwnerID))
	log.Info("analysis started", zap.String("repo_url", cmd.RepoURL))

	res, err := s.execute(ctx, rec)
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		s.fail(ctx, rec, err)
		return RunResult{ID: string(rec.ID), Analysis: rec}, err
	}
	if s.Metrics != nil {
		s.Metrics.AnalysisFinished(rec.Status)
	}
	log.Info("analysis completed", zap.Int("score", res.Score), zap.Int("files", res.FilesAnalyzed))
	return res, nil
}

func (s *Service) execute(ctx context.Context, rec *domain.Analysis) (RunResult, error) {
	loc, err := repos.ParseLocator(rec.RepoURL)
	if err != nil {
		return RunResult{}, err
	}
	loc, err = s.Host.ResolveBranch(ctx, loc)
	if err != nil {
		return RunResult{}, err
	}
	rec.Repository, rec.Branch = loc.FullName(), loc.Branch

	entries, err := s.Host.Tree(ctx, loc)
	if err != nil {
		return RunResult{}, err
	}
	cls := repos.Classify(entries)
	run := &runState{svc: s, record: rec, locator: loc}

	profile := techstack.NewProfile()
	for _, fc := range cls.Code {
		profile.CountLanguage(fc.Extension)
	}
	s.logger().Debug("tree classified",
		zap.String("analysis_id", string(rec.ID)),
		zap.Int("code", len(cls.Code)),
		zap.Int("manifests", len(cls.Manifests)),
		zap.Int("ignored", cls.Ignored))

	s.detectManifests(ctx, run, cls.Manifests, profile)

	var (
		insights []domain.FileInsight
		signals  = map[string]domain.Signals{}
		findings []techstack.Finding
		recs     []domain.Recommendation
	)
	for _, batch := range Batches(cls.Code, s.BatchSize) {
		outcomes := s.runBatch(ctx, run, batch)

		var skips []*analysiserrors.AnalysisError
		for _, o := range outcomes {
			profile.Merge(o.delta)
			findings = append(findings, o.findings...)
			if o.skip != nil {
				skips = append(skips, o.skip)
			}
			if o.insight == nil {
				continue
			}
			insights = append(insights, *o.insight)
			signals[o.insight.File] = domain.Signals{Score: o.insight.Score, HasSecurityConcerns: o.result.HasSecurityConcerns()}
			for _, r := range o.result.Recommendations {
				recs = append(recs, domain.Recommendation{File: o.insight.File, Text: r})
			}
		}
		s.recordSkips(ctx, skips)
	}

	// task completion order is not stable; persist in path order
	sort.Slice(insights, func(i, j int) bool { return insights[i].File < insights[j].File })
	files := make([]domain.Signals, 0, len(insights))
	for _, in := range insights {
		sig := signals[in.File]
		files = append(files, sig)
		if sig.HasSecurityConcerns {
			profile.SecurityIssues++
		}
		if sig.Score < domain.QualityThreshold {
			profile.QualityIssues++
		}
	}

	score := domain.Aggregate(files, profile)
	summary := domain.Summary(domain.SummaryInput{
		FilesAnalyzed: cls.Relevant(),
		CodeFiles:     len(cls.Code),
		Reviewed:      len(insights),
		Average:       domain.Average(files),
		Profile:       profile,
	})
	// rec stays pending until the completed copy is persisted
	done := *rec
	if err := done.Complete(domain.Outcome{
		Score:         score,
		Summary:       summary,
		Suggestions:   domain.Suggestions(findings, recs),
		TechStack:     profile,
		FileInsights:  insights,
		FilesAnalyzed: cls.Relevant(),
	}, s.now()); err != nil {
		return RunResult{}, err
	}
	if err := s.Repo.Save(ctx, &done); err != nil {
		return RunResult{}, fmt.Errorf("save analysis: %w", err)
	}
	*rec = done

	if s.archive(ctx, rec) {
		if err := s.Repo.Save(ctx, rec); err != nil {
			s.logger().Warn("save report url", zap.String("analysis_id", string(rec.ID)), zap.Error(err))
		}
	}

	return RunResult{
		ID:             string(rec.ID),
		Score:          score,
		FilesAnalyzed:  rec.FilesAnalyzed,
		Languages:      sortedKeys(profile.Languages),
		Frameworks:     profile.Frameworks.Sorted(),
		SecurityIssues: profile.SecurityIssues,
		Analysis:       rec,
	}, nil
}

// detectManifests runs the manifest pass sequentially. Failures are skipped.
func (s *Service) detectManifests(ctx context.Context, run *runState, manifests []repos.FileCandidate, profile *techstack.Profile) {
	var skips []*analysiserrors.AnalysisError
	for _, fc := range manifests {
		if _, ok := techstack.EcosystemOf(fc.Path); !ok {
			continue
		}
		content, err := s.Host.Content(ctx, run.locator, fc.Path)
		if err != nil {
			skips = append(skips, run.skip(fc.Path, analysiserrors.PhaseManifest, fmt.Errorf("%w: %w", techstack.ErrManifestUnreadable, err)))
			continue
		}
		delta, err := s.Detector.DetectManifest(fc.Path, content)
		if err != nil {
			skips = append(skips, run.skip(fc.Path, analysiserrors.PhaseManifest, err))
			continue
		}
		profile.Merge(delta)
	}
	s.recordSkips(ctx, skips)
}

// recordSkips persists the skip log; write failures are only logged.
func (s *Service) recordSkips(ctx context.Context, skips []*analysiserrors.AnalysisError) {
	if s.Errors == nil {
		return
	}
	for _, e := range skips {
		if err := s.Errors.Save(ctx, e); err != nil {
			s.logger().Warn("save analysis error entry", zap.String("analysis_id", e.AnalysisID), zap.Error(err))
		}
	}
}

// archive uploads the completed record as JSON and reports whether
// ReportURL was set. Failure is not fatal.
func (s *Service) archive(ctx context.Context, rec *domain.Analysis) bool {
	if s.Reports == nil {
		return false
	}
	key := fmt.Sprintf("reports/%s/%s.json", rec.OwnerID, rec.ID)
	url, err := s.Reports.PutJSON(ctx, key, rec)
	if err != nil {
		s.logger().Warn("archive report", zap.String("analysis_id", string(rec.ID)), zap.Error(err))
		s.recordSkips(ctx, []*analysiserrors.AnalysisError{{
			OwnerID:    rec.OwnerID,
			AnalysisID: string(rec.ID),
			Phase:      analysiserrors.PhaseArchive,
			Message:    err.Error(),
			CreatedAt:  s.now(),
		}})
		return false
	}
	rec.ReportURL = url
	return true
}

func (s *Service) fail(ctx context.Context, rec *domain.Analysis, cause error) {
	if s.Metrics != nil {
		defer s.Metrics.AnalysisFinished(domain.StatusFailed)
	}
	if err := rec.Fail(cause, s.now()); err != nil {
		return
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		s.logger().Error("mark analysis failed", zap.String("analysis_id", string(rec.ID)), zap.Error(err))
	}
}

// Latest ambil N analisis terakhir
func (s *Service) Latest(ctx context.Context, owner string, limit int) ([]*domain.Analysis, error) {
	return s.Repo.Latest(ctx, owner, limit)
}

// Get ambil 1 analisis by id
func (s *Service) Get(ctx context.Context, owner string, id domain.ID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, owner, id)
}

// SkippedFiles ambil log file yang dilewati untuk satu analisis
func (s *Service) SkippedFiles(ctx context.Context, owner string, id domain.ID, limit int) ([]*analysiserrors.AnalysisError, error) {
	if s.Errors == nil {
		return []*analysiserrors.AnalysisError{}, nil
	}
	return s.Errors.ListByAnalysis(ctx, owner, string(id), limit)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
