package tmdb

import (
	"context"

	"keywordtagger/internal/keywords"
)

// SourceName identifies TMDB in logs and joined fetch errors.
const SourceName = "tmdb"

// Source exposes a KeywordLookup as a named keyword provider.
type Source struct {
	lookup KeywordLookup
}

// NewSource wraps lookup.
func NewSource(lookup KeywordLookup) *Source {
	return &Source{lookup: lookup}
}

func (s *Source) Name() string { return SourceName }

// Keywords returns the normalized keyword names for imdbID.
func (s *Source) Keywords(ctx context.Context, imdbID string) (keywords.Set, error) {
	resp, err := s.lookup.MovieKeywords(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	return keywords.New(resp.Names()...), nil
}
