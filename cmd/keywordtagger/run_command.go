package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"keywordtagger/internal/history"
	"keywordtagger/internal/logging"
	"keywordtagger/internal/preflight"
	"keywordtagger/internal/provider"
	"keywordtagger/internal/reconcile"
	"keywordtagger/internal/runlock"
	"keywordtagger/internal/scan"
	"keywordtagger/internal/tagger"
)

type runFlags struct {
	dryRun  bool
	diff    bool
	summary bool
}

func runTagging(cmd *cobra.Command, ctx *commandContext, target string, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.newLogger(cmd)
	if err != nil {
		return err
	}

	if err := tagger.CheckTarget(target); err != nil {
		return fmt.Errorf("target %q: %w", target, err)
	}

	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	runLogger := logging.WithContext(runCtx, logger)

	if !flags.dryRun {
		if err := cfg.EnsureStateDir(); err != nil {
			return err
		}
	}
	for _, check := range preflight.Failed(preflight.RunAll(cfg, target, flags.dryRun)) {
		logging.WarnWithContext(runLogger, "preflight check failed", "preflight_failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
			logging.String(logging.FieldImpact, "files under the target may not be updated"),
		)
	}

	opts := tagger.Options{
		DryRun: flags.dryRun,
		Diff:   flags.diff,
		Out:    cmd.OutOrStdout(),
		Logger: logger,
		Scan: scan.Options{
			Extension: cfg.Scan.Extension,
			Exclude:   cfg.Scan.Exclude,
		},
		RunID: runID,
	}

	if !flags.dryRun || flags.diff {
		if !cfg.AnyProviderEnabled() {
			runLogger.Info("no keyword providers enabled; nothing will be added")
		}
		if err := cfg.RequireTMDBKey(); err != nil {
			logging.WarnWithContext(runLogger, "tmdb api key missing", "tmdb_key_missing",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "set TMDB_API_KEY or run 'keywordtagger config init'"),
				logging.String(logging.FieldImpact, "records are reported but gain no TMDB keywords"),
			)
		}
		fetcher, err := provider.New(cfg)
		if err != nil {
			return fmt.Errorf("build keyword providers: %w", err)
		}
		runLogger.Debug("keyword providers ready", logging.Strings("providers", fetcher.Names()))
		opts.Reconciler = reconcile.New(fetcher, logger)
	}

	if !flags.dryRun {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				runLogger.Warn("release run lock", logging.Error(err))
			}
		}()

		if cfg.History.Enabled {
			store, err := history.Open(cfg)
			if err != nil {
				logging.WarnWithContext(runLogger, "history journal unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "this run will not be recorded in history"),
				)
			} else {
				defer closeStore(store, runLogger)
				opts.Journal = store
			}
		}
	}

	summary, err := tagger.New(opts).Run(runCtx, target)
	if err != nil {
		if errors.Is(err, tagger.ErrUsage) {
			return fmt.Errorf("target %q: %w", target, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if flags.summary || isTerminalWriter(out) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSummary(summary))
	}
	return nil
}

func closeStore(store *history.Store, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Warn("close history journal", logging.Error(err))
	}
}
