package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/repo-insight/internal/application/analysis"
	"github.com/bryanwahyu/repo-insight/internal/bootstrap"
	"github.com/bryanwahyu/repo-insight/internal/config"
	"github.com/bryanwahyu/repo-insight/internal/logging"
	"github.com/bryanwahyu/repo-insight/internal/middleware"
)

type rootOptions struct {
	configPath string
	timeout    time.Duration
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{now: time.Now}
	root := &cobra.Command{
		Use:           "analyze",
		Short:         "Repository insight analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: $CONFIG_PATH or config.yaml)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Minute, "Overall run timeout")

	root.AddCommand(newRunCmd(opts), newTokenCmd(opts))
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.Path()
	}
	return config.Load(path)
}

// newRunCmd executes one pipeline run and prints the result as JSON.
func newRunCmd(opts *rootOptions) *cobra.Command {
	var owner string
	var full bool
	cmd := &cobra.Command{
		Use:   "run <repoUrl>",
		Short: "Analyze one repository and print the result",
		Long: `Run the full analysis pipeline against a repository and persist the record.

The short result (analysisId, score, languages, frameworks, securityIssues) is
printed as JSON; --full prints the persisted record instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := middleware.ValidateRepoURL(args[0]); err != nil {
				return err
			}
			if err := middleware.ValidateOwnerID(owner); err != nil {
				return err
			}
			cfg, err := opts.load()
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			app, err := bootstrap.New(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Service.Run(ctx, appanalysis.RunCommand{OwnerID: owner, RepoURL: args[0]})
			if err != nil {
				logger.Error("analysis failed", zap.String("analysis_id", res.ID), zap.Error(err))
				return err
			}
			if full {
				return printJSON(cmd.OutOrStdout(), res.Analysis)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "cli", "Owner ID the record is stored under")
	cmd.Flags().BoolVar(&full, "full", false, "Print the full persisted record")
	return cmd
}

// newTokenCmd mints a bearer JWT for the HTTP API.
func newTokenCmd(opts *rootOptions) *cobra.Command {
	var ttl time.Duration
	var secret string
	cmd := &cobra.Command{
		Use:   "token <ownerId>",
		Short: "Mint a bearer token for the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				cfg, err := opts.load()
				if err != nil {
					return fmt.Errorf("no --secret or JWT_SECRET, and config load failed: %w", err)
				}
				secret = cfg.Auth.JWTSecret
			}
			if secret == "" {
				return errors.New("jwt secret is not configured")
			}
			tok, err := middleware.IssueToken(secret, args[0], ttl, opts.now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (default: $JWT_SECRET or auth.jwtSecret)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
