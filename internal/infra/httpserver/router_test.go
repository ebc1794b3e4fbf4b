package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/bryanwahyu/repo-insight/internal/application/analysis"
	domain "github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/domain/analysiserrors"
	"github.com/bryanwahyu/repo-insight/internal/domain/repos"
	"github.com/bryanwahyu/repo-insight/internal/middleware"
)

const knownID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

type fakeAnalyzer struct {
	runCmd   appanalysis.RunCommand
	ctxErr   error
	runErr   error
	records  map[string]*domain.Analysis // id -> record
	skipped  []*analysiserrors.AnalysisError
	gotLimit int
}

func (f *fakeAnalyzer) Run(ctx context.Context, cmd appanalysis.RunCommand) (appanalysis.RunResult, error) {
	f.runCmd = cmd
	f.ctxErr = ctx.Err()
	if f.runErr != nil {
		return appanalysis.RunResult{ID: knownID}, f.runErr
	}
	return appanalysis.RunResult{
		ID:             knownID,
		Score:          8,
		FilesAnalyzed:  4,
		Languages:      []string{"go"},
		Frameworks:     []string{"Gin"},
		SecurityIssues: 1,
	}, nil
}

func (f *fakeAnalyzer) Get(_ context.Context, owner string, id domain.ID) (*domain.Analysis, error) {
	a, ok := f.records[string(id)]
	if !ok || a.OwnerID != owner {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return a, nil
}

func (f *fakeAnalyzer) Latest(_ context.Context, owner string, limit int) ([]*domain.Analysis, error) {
	f.gotLimit = limit
	out := []*domain.Analysis{}
	for _, a := range f.records {
		if a.OwnerID == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnalyzer) SkippedFiles(_ context.Context, _ string, _ domain.ID, limit int) ([]*analysiserrors.AnalysisError, error) {
	f.gotLimit = limit
	return f.skipped, nil
}

func newTestRouter(f *fakeAnalyzer, opts Options) http.Handler {
	if opts.APIKeys == nil {
		opts.APIKeys = map[string]string{"alice": "key-a", "bob": "key-b"}
	}
	return NewRouter(f, opts)
}

func do(h http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeRepository(t *testing.T) {
	f := &fakeAnalyzer{}
	h := newTestRouter(f, Options{})

	rec := do(h, http.MethodPost, "/analyze-repository", "key-a", `{"repoUrl":"https://github.com/o/r"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"success": true,
		"analysisId": "`+knownID+`",
		"score": 8,
		"filesAnalyzed": 4,
		"languages": ["go"],
		"frameworks": ["Gin"],
		"securityIssues": 1
	}`, rec.Body.String())
	assert.Equal(t, "alice", f.runCmd.OwnerID)
	assert.Equal(t, "https://github.com/o/r", f.runCmd.RepoURL)
	assert.NoError(t, f.ctxErr)
}

func TestAnalyzeRepository_Errors(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		body   string
		runErr error
		status int
		errMsg string
	}{
		{"unauthenticated", "", `{"repoUrl":"o/r"}`, nil, http.StatusUnauthorized, "missing Authorization header"},
		{"empty body", "key-a", ``, nil, http.StatusBadRequest, "request body is required"},
		{"malformed json", "key-a", `{"repoUrl":`, nil, http.StatusBadRequest, "invalid request body"},
		{"missing repoUrl", "key-a", `{}`, nil, http.StatusBadRequest, "repoUrl is required"},
		{"fatal pipeline error", "key-a", `{"repoUrl":"o/r"}`,
			fmt.Errorf("%w: o/r: 404", repos.ErrTreeUnavailable), http.StatusInternalServerError, "tree unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&fakeAnalyzer{runErr: tt.runErr}, Options{})
			rec := do(h, http.MethodPost, "/analyze-repository", tt.key, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.errMsg)
		})
	}
}

func TestAnalyzeRepository_RateLimited(t *testing.T) {
	h := newTestRouter(&fakeAnalyzer{}, Options{Limiter: middleware.NewRateLimiter(1, 0.001)})

	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/analyze-repository", "key-a", `{"repoUrl":"o/r"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/analyze-repository", "key-a", `{"repoUrl":"o/r"}`).Code)
	// read endpoints are not limited
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/analyses", "key-a", "").Code)
}

func TestReadEndpoints(t *testing.T) {
	score := 6
	f := &fakeAnalyzer{
		records: map[string]*domain.Analysis{
			knownID: {ID: knownID, OwnerID: "alice", Status: domain.StatusCompleted, Score: &score},
		},
		skipped: []*analysiserrors.AnalysisError{{ID: 1, OwnerID: "alice", AnalysisID: knownID, Path: "a.go", Phase: analysiserrors.PhaseFetch, Message: "boom"}},
	}
	h := newTestRouter(f, Options{})

	t.Run("get own", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/analyses/"+knownID, "key-a", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.Analysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.StatusCompleted, got.Status)
		require.NotNil(t, got.Score)
		assert.Equal(t, 6, *got.Score)
	})
	t.Run("other owner gets 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/analyses/"+knownID, "key-b", "").Code)
	})
	t.Run("bad id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/analyses/not-a-uuid", "key-a", "").Code)
	})
	t.Run("latest clamps limit", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/analyses?limit=1000", "key-a", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 100, f.gotLimit)
		var list []domain.Analysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})
	t.Run("latest bad limit", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/analyses?limit=x", "key-a", "").Code)
	})
	t.Run("errors", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/analyses/"+knownID+"/errors", "key-a", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"phase":"fetch"`)
		assert.Equal(t, 20, f.gotLimit)
	})
	t.Run("errors of foreign analysis", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/analyses/"+knownID+"/errors", "key-b", "").Code)
	})
}

func TestHealthAndCORS(t *testing.T) {
	h := newTestRouter(&fakeAnalyzer{}, Options{Metrics: middleware.NewMetrics(time.Now())})

	rec := do(h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["timestamp"])

	req := httptest.NewRequest(http.MethodOptions, "/analyze-repository", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	assert.Equal(t, "*", pre.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, pre.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	m := do(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "analyses_total")
}

func TestWrap_UnknownError(t *testing.T) {
	r := &Router{}
	rec := httptest.NewRecorder()
	r.wrap(func(http.ResponseWriter, *http.Request) error { return errors.New("kaboom") })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"kaboom"}`, rec.Body.String())
}
