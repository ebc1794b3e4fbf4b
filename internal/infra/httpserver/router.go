package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/repo-insight/internal/application/analysis"
	domain "github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/domain/analysiserrors"
	"github.com/bryanwahyu/repo-insight/internal/middleware"
)

const maxBodyBytes = 1 << 16

// Analyzer is the use-case surface the HTTP layer needs.
type Analyzer interface {
	Run(ctx context.Context, cmd appanalysis.RunCommand) (appanalysis.RunResult, error)
	Get(ctx context.Context, owner string, id domain.ID) (*domain.Analysis, error)
	Latest(ctx context.Context, owner string, limit int) ([]*domain.Analysis, error)
	SkippedFiles(ctx context.Context, owner string, id domain.ID, limit int) ([]*analysiserrors.AnalysisError, error)
}

// Options carries the middleware dependencies.
type Options struct {
	APIKeys   map[string]string
	JWTSecret string
	Limiter   *middleware.RateLimiter // nil disables rate limiting
	Metrics   *middleware.Metrics
	Health    map[string]middleware.HealthChecker
	Log       *zap.Logger
}

type Router struct {
	svc Analyzer
	log *zap.Logger
}

func NewRouter(svc Analyzer, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(log))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.Health, nil))
	if opts.Metrics != nil {
		mux.Get("/metrics", opts.Metrics.Handler)
	}

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.Auth(opts.APIKeys, opts.JWTSecret))

		rt.With(limit(opts.Limiter)).Post("/analyze-repository", r.wrap(r.handleAnalyze))
		rt.Get("/analyses", r.wrap(r.handleLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/analyses/{id}/errors", r.wrap(r.handleErrors))
	})

	return mux
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// badRequest marks client input errors.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br badRequest
		switch {
		case errors.As(err, &br):
			middleware.WriteError(w, http.StatusBadRequest, br.msg)
		case errors.Is(err, domain.ErrNotFound):
			middleware.WriteError(w, http.StatusNotFound, "analysis not found")
		default:
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

type analyzeResponse struct {
	Success bool `json:"success"`
	appanalysis.RunResult
}

// POST /analyze-repository
// Body: {"repoUrl": "https://github.com/owner/name"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		RepoURL string `json:"repoUrl"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest{"request body is required"}
		}
		return badRequest{fmt.Sprintf("invalid request body: %v", err)}
	}
	if err := middleware.ValidateRepoURL(body.RepoURL); err != nil {
		return badRequest{err.Error()}
	}

	// pipeline tetap jalan walaupun client disconnect
	ctx := context.WithoutCancel(req.Context())
	res, err := r.svc.Run(ctx, appanalysis.RunCommand{
		OwnerID: middleware.GetOwnerFromContext(req.Context()),
		RepoURL: body.RepoURL,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, analyzeResponse{Success: true, RunResult: res})
}

// GET /analyses?limit=
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	n, err := queryLimit(req)
	if err != nil {
		return err
	}
	list, err := r.svc.Latest(req.Context(), middleware.GetOwnerFromContext(req.Context()), n)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(req)
	if err != nil {
		return err
	}
	a, err := r.svc.Get(req.Context(), middleware.GetOwnerFromContext(req.Context()), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /analyses/{id}/errors?limit=
func (r *Router) handleErrors(w http.ResponseWriter, req *http.Request) error {
	id, err := analysisID(req)
	if err != nil {
		return err
	}
	n, err := queryLimit(req)
	if err != nil {
		return err
	}
	owner := middleware.GetOwnerFromContext(req.Context())
	// 404 kalau analisis bukan milik owner
	if _, err := r.svc.Get(req.Context(), owner, id); err != nil {
		return err
	}
	list, err := r.svc.SkippedFiles(req.Context(), owner, id, n)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

func analysisID(req *http.Request) (domain.ID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return "", badRequest{err.Error()}
	}
	return domain.ID(id), nil
}

func queryLimit(req *http.Request) (int, error) {
	raw := req.URL.Query().Get("limit")
	if raw == "" {
		return middleware.ValidateLimit(0), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest{"limit must be an integer"}
	}
	return middleware.ValidateLimit(n), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// NewServer applies the configured timeouts.
func NewServer(addr string, h http.Handler, read, write, idle time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       read,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      write,
		IdleTimeout:       idle,
	}
}
