// Package reconcile computes which remote keywords a record is missing.
package reconcile

import (
	"context"
	"log/slog"

	"keywordtagger/internal/keywords"
	"keywordtagger/internal/logging"
	"keywordtagger/internal/nfo"
)

// Fetcher returns the remote keywords for an IMDb id.
type Fetcher interface {
	Fetch(ctx context.Context, imdbID string) (keywords.Set, error)
}

// Reconciler compares local and remote keywords, fetching at most once per
// record.
type Reconciler struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates a Reconciler. A nil fetcher behaves as if no provider is
// enabled.
func New(fetcher Fetcher, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Remote returns the record's remote keywords. A successful fetch is cached
// on the record; a failed one is logged, returns whatever partial set the
// fetcher produced, and is retried on the next call.
func (r *Reconciler) Remote(ctx context.Context, rec *nfo.Record) keywords.Set {
	if cached, ok := rec.CachedRemote(); ok {
		return cached
	}
	if r.fetcher == nil {
		rec.CacheRemote(nil)
		cached, _ := rec.CachedRemote()
		return cached
	}

	set, err := r.fetcher.Fetch(ctx, rec.ID)
	if set == nil {
		set = keywords.New()
	}
	if err != nil {
		logging.WarnWithContext(
			logging.WithContext(ctx, r.logger),
			"remote keyword fetch failed",
			"remote_fetch_failed",
			logging.String(logging.FieldPath, rec.Path),
			logging.String(logging.FieldIMDbID, rec.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and the TMDB API key"),
			logging.String(logging.FieldImpact, "record treated as having no remote keywords"),
		)
		return set
	}
	rec.CacheRemote(set)
	return set
}

// Missing returns the remote keywords absent from the record.
func (r *Reconciler) Missing(ctx context.Context, rec *nfo.Record) keywords.Set {
	return r.Remote(ctx, rec).Difference(rec.LocalKeywords())
}
