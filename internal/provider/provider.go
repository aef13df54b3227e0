package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"keywordtagger/internal/config"
	"keywordtagger/internal/keywords"
	"keywordtagger/internal/provider/imdb"
	"keywordtagger/internal/provider/tmdb"
)

// Source supplies keywords for an IMDb identifier.
type Source interface {
	Name() string
	Keywords(ctx context.Context, imdbID string) (keywords.Set, error)
}

// Fetcher queries every enabled Source.
type Fetcher struct {
	sources []Source
}

// Option configures New.
type Option func(*options)

type options struct {
	httpClient *http.Client
	sources    []Source
	override   bool
}

// WithHTTPClient sets the HTTP client used by HTTP-backed sources.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSources replaces the configured sources entirely.
func WithSources(sources ...Source) Option {
	return func(o *options) {
		o.sources = sources
		o.override = true
	}
}

// New builds a Fetcher for the providers enabled in cfg. An enabled TMDB
// provider without an API key is kept as a source whose every lookup fails
// with config.ErrMissingAPIKey, so records are still reported and simply gain
// no keywords.
func New(cfg *config.Config, opts ...Option) (*Fetcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.override {
		return &Fetcher{sources: o.sources}, nil
	}
	if cfg == nil {
		return nil, errors.New("provider: config required")
	}

	var sources []Source
	if cfg.Providers.TMDB {
		if err := cfg.RequireTMDBKey(); err != nil {
			sources = append(sources, unavailableSource{name: tmdb.SourceName, err: err})
			return finish(cfg, sources), nil
		}
		clientOpts := []tmdb.Option{tmdb.WithHTTPClient(o.httpClient)}
		if cfg.TMDB.TimeoutSeconds > 0 {
			clientOpts = append(clientOpts, tmdb.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second))
		}
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		sources = append(sources, tmdb.NewSource(client))
	}
	return finish(cfg, sources), nil
}

func finish(cfg *config.Config, sources []Source) *Fetcher {
	if cfg.Providers.IMDb {
		sources = append(sources, imdb.NewSource())
	}
	return &Fetcher{sources: sources}
}

// unavailableSource stands in for a provider that is enabled but cannot be
// queried.
type unavailableSource struct {
	name string
	err  error
}

func (s unavailableSource) Name() string { return s.name }

func (s unavailableSource) Keywords(context.Context, string) (keywords.Set, error) {
	return keywords.New(), s.err
}

// Names lists the configured sources in query order.
func (f *Fetcher) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.sources))
	for _, src := range f.sources {
		names = append(names, src.Name())
	}
	return names
}

// Fetch returns the union of every source's keywords for imdbID. Source
// failures are joined into the returned error; keywords from the sources that
// succeeded are still returned.
func (f *Fetcher) Fetch(ctx context.Context, imdbID string) (keywords.Set, error) {
	out := keywords.New()
	if f == nil {
		return out, nil
	}
	var errs []error
	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		set, err := src.Keywords(ctx, imdbID)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		out = out.Union(set)
	}
	return out, errors.Join(errs...)
}
