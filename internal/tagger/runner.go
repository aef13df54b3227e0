package tagger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"keywordtagger/internal/history"
	"keywordtagger/internal/logging"
	"keywordtagger/internal/nfo"
	"keywordtagger/internal/reconcile"
	"keywordtagger/internal/scan"
)

// ErrUsage marks invocation errors such as a missing target directory.
var ErrUsage = errors.New("usage error")

// CheckTarget reports a missing or non-directory target as ErrUsage.
func CheckTarget(target string) error {
	_, err := scan.ResolveRoot(target)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, scan.ErrNotDirectory) {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return err
}

// Journal records run outcomes. *history.Store satisfies it.
type Journal interface {
	BeginRun(ctx context.Context, id, target string) error
	RecordFile(ctx context.Context, runID string, entry history.FileEntry) error
	FinishRun(ctx context.Context, run history.Run) error
}

// Options configures a Runner.
type Options struct {
	// DryRun reports records without computing or writing anything.
	DryRun bool
	// Diff prints the missing keywords under each reported path.
	Diff bool
	// Out receives the report. Defaults to io.Discard.
	Out        io.Writer
	Logger     *slog.Logger
	Reconciler *reconcile.Reconciler
	// Journal is written only for non-dry runs. Optional.
	Journal Journal
	Scan    scan.Options
	RunID   string
}

// Summary aggregates the outcome of a run.
type Summary struct {
	RunID         string
	Target        string
	DryRun        bool
	Scanned       int
	Records       int
	Skipped       int
	Updated       int
	KeywordsAdded int
	Failures      int
	Duration      time.Duration
}

// Runner executes tagging runs.
type Runner struct {
	opts   Options
	out    io.Writer
	logger *slog.Logger
	rec    *reconcile.Reconciler
}

// New creates a Runner. A nil Reconciler behaves as if no provider is enabled.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	rec := opts.Reconciler
	if rec == nil {
		rec = reconcile.New(nil, logger)
	}
	return &Runner{
		opts:   opts,
		out:    out,
		logger: logging.NewComponentLogger(logger, "tagger"),
		rec:    rec,
	}
}

// Run processes every NFO file below target. Per-file failures are counted in
// the summary; the returned error is non-nil only for usage errors, journal
// setup failures that cannot be ignored, or context cancellation.
func (r *Runner) Run(ctx context.Context, target string) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: r.opts.RunID, Target: target, DryRun: r.opts.DryRun}
	logger := logging.WithContext(ctx, r.logger)

	if err := CheckTarget(target); err != nil {
		return summary, err
	}
	files, err := scan.Find(target, r.opts.Scan)
	if err != nil {
		return summary, err
	}

	journal := r.opts.Journal
	if r.opts.DryRun {
		journal = nil
	}
	if journal != nil {
		if err := journal.BeginRun(ctx, r.opts.RunID, target); err != nil {
			logging.WarnWithContext(logger, "history journal unavailable", "history_begin_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not be recorded in history"),
			)
			journal = nil
		}
	}

	logger.Debug("run started",
		logging.String("target", target),
		logging.Bool("dry_run", r.opts.DryRun),
		logging.Bool("diff", r.opts.Diff),
	)

	var runErr error
	for path, walkErr := range files {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if walkErr != nil {
			summary.Failures++
			logging.WarnWithContext(logger, "directory walk error", "walk_failed",
				logging.Error(walkErr),
				logging.String(logging.FieldImpact, "part of the tree was not scanned"),
			)
			continue
		}
		summary.Scanned++
		r.processFile(ctx, logger, journal, path, &summary)
	}

	summary.Duration = time.Since(started)
	if journal != nil {
		if err := journal.FinishRun(ctx, history.Run{
			ID:            r.opts.RunID,
			Records:       summary.Records,
			Updated:       summary.Updated,
			KeywordsAdded: summary.KeywordsAdded,
			Failures:      summary.Failures,
		}); err != nil {
			logging.WarnWithContext(logger, "history journal update failed", "history_finish_failed",
				logging.Error(err),
			)
		}
	}

	logger.Info("run complete",
		logging.Int("records", summary.Records),
		logging.Int("updated", summary.Updated),
		logging.Int("keywords_added", summary.KeywordsAdded),
		logging.Int("failures", summary.Failures),
		logging.Duration("duration", summary.Duration),
	)
	return summary, runErr
}

func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, journal Journal, path string, summary *Summary) {
	fileLogger := logger.With(logging.String(logging.FieldPath, path))

	rec, err := nfo.Load(path)
	if err != nil {
		if errors.Is(err, nfo.ErrNotRecord) {
			summary.Skipped++
			fileLogger.Debug("skipping file", logging.String("reason", err.Error()))
			return
		}
		summary.Failures++
		logging.ErrorWithContext(fileLogger, "nfo read failed", "nfo_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check file permissions"),
		)
		r.record(ctx, fileLogger, journal, history.FileEntry{Path: path, Error: err.Error()})
		return
	}

	summary.Records++
	fmt.Fprintln(r.out, rec.Path)
	fileLogger = fileLogger.With(logging.String(logging.FieldIMDbID, rec.ID))

	if r.opts.DryRun && !r.opts.Diff {
		return
	}

	missing := r.rec.Missing(ctx, rec)
	if r.opts.Diff {
		for _, keyword := range missing.Sorted() {
			fmt.Fprintf(r.out, "  + %s\n", keyword)
		}
	}
	if r.opts.DryRun {
		return
	}

	added := rec.AppendKeywords(missing)
	if len(added) == 0 {
		fileLogger.Debug("record up to date")
		return
	}
	if err := rec.Save(); err != nil {
		summary.Failures++
		logging.ErrorWithContext(fileLogger, "nfo write failed", "nfo_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the file is writable"),
		)
		r.record(ctx, fileLogger, journal, history.FileEntry{Path: path, IMDbID: rec.ID, Error: err.Error()})
		return
	}

	summary.Updated++
	summary.KeywordsAdded += len(added)
	fileLogger.Info("keywords added", logging.Strings("keywords", added))
	r.record(ctx, fileLogger, journal, history.FileEntry{Path: path, IMDbID: rec.ID, Added: added})
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, journal Journal, entry history.FileEntry) {
	if journal == nil {
		return
	}
	if err := journal.RecordFile(ctx, r.opts.RunID, entry); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
