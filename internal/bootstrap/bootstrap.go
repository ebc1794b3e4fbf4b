// Package bootstrap wires config into adapters and the analysis service.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/repo-insight/internal/application"
	appai "github.com/bryanwahyu/repo-insight/internal/application/ai"
	appanalysis "github.com/bryanwahyu/repo-insight/internal/application/analysis"
	"github.com/bryanwahyu/repo-insight/internal/config"
	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
	"github.com/bryanwahyu/repo-insight/internal/domain/analysis"
	"github.com/bryanwahyu/repo-insight/internal/domain/analysiserrors"
	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
	"github.com/bryanwahyu/repo-insight/internal/infra/ai/gemini"
	"github.com/bryanwahyu/repo-insight/internal/infra/ai/ollama"
	"github.com/bryanwahyu/repo-insight/internal/infra/ai/openai"
	"github.com/bryanwahyu/repo-insight/internal/infra/db/mysql"
	"github.com/bryanwahyu/repo-insight/internal/infra/db/postgres"
	"github.com/bryanwahyu/repo-insight/internal/infra/github"
	"github.com/bryanwahyu/repo-insight/internal/infra/storage"
	"github.com/bryanwahyu/repo-insight/internal/logging"
)

// App holds the wired service and the resources to release on exit.
type App struct {
	DB      *sql.DB
	Service *appanalysis.Service
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// New connects every configured adapter. metrics may be a nil interface.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, metrics appanalysis.Metrics) (*App, error) {
	log = logging.OrNop(log)
	db, repo, errRepo, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{DB: db}

	host, err := github.New(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL, cfg.GitHub.Timeout, log.Named("github"))
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("github client: %w", err)
	}

	client, err := NewReviewClient(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	reviewer := appai.NewService(client,
		appai.WithMaxAttempts(cfg.Analysis.MaxAttempts),
		appai.WithContentLimit(cfg.Analysis.ContentLimit),
		appai.WithLogger(log.Named("reviewer")),
	)

	svc := &appanalysis.Service{
		Repo:      repo,
		Errors:    errRepo,
		Host:      host,
		Reviewer:  reviewer,
		Detector:  techstack.NewDetector(),
		Clock:     application.SystemClock{},
		Log:       log.Named("analysis"),
		BatchSize: cfg.Analysis.BatchSize,
		Metrics:   metrics,
	}

	// arsip laporan opsional
	if cfg.ArchiveEnabled() {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		svc.Reports = store
	}

	app.Service = svc
	return app, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, analysis.Repository, analysiserrors.Repository, error) {
	d := cfg.Database
	switch d.Driver {
	case "mysql":
		db, err := mysql.Connect(ctx, mysql.DSN(d.User, d.Password, d.Host, d.Port, d.Name))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if d.Migrate {
			if err := mysql.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return db, mysql.NewAnalysisRepository(db), mysql.NewAnalysisErrorRepository(db), nil
	case "postgres":
		db, err := postgres.Connect(ctx, postgres.DSN(d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if d.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return db, postgres.NewAnalysisRepository(db), postgres.NewAnalysisErrorRepository(db), nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

// NewReviewClient picks the reviewer adapter for cfg.AI.Provider.
func NewReviewClient(ctx context.Context, cfg *config.Config) (ai.Client, error) {
	c := cfg.AI
	switch c.Provider {
	case "gemini":
		g, err := gemini.NewClient(ctx, c.APIKey, c.Model, c.Host)
		if err != nil {
			return nil, err
		}
		g.Temperature = c.Temperature
		g.MaxTokens = int32(c.MaxTokens)
		return g, nil
	case "openai":
		var o *openai.Client
		if c.Host != "" {
			o = openai.NewClientWithBaseURL(c.APIKey, c.Model, c.Host)
		} else {
			o = openai.NewClient(c.APIKey, c.Model)
		}
		o.Temperature = c.Temperature
		o.MaxTokens = c.MaxTokens
		return o, nil
	case "ollama":
		return ollama.NewClient(c.Host, c.Model)
	default:
		return nil, errors.New("unsupported ai provider " + c.Provider)
	}
}
