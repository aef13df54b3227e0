// Package imdb provides the IMDb keyword source. IMDb offers no public
// keyword API, so the source contributes nothing; it exists so the provider
// can be selected in configuration.
package imdb

import (
	"context"

	"keywordtagger/internal/keywords"
)

// Source is the IMDb keyword provider.
type Source struct{}

// NewSource returns the IMDb source.
func NewSource() *Source { return &Source{} }

// Name identifies the provider in logs and errors.
func (*Source) Name() string { return "imdb" }

// Keywords always returns an empty set.
func (*Source) Keywords(context.Context, string) (keywords.Set, error) {
	return keywords.New(), nil
}
