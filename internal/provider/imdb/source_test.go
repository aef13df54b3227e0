package imdb_test

import (
	"context"
	"testing"

	"keywordtagger/internal/provider/imdb"
)

func TestSourceContributesNothing(t *testing.T) {
	src := imdb.NewSource()
	set, err := src.Keywords(context.Background(), "tt0113277")
	if err != nil {
		t.Fatalf("Keywords returned error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.Sorted())
	}
	if src.Name() != "imdb" {
		t.Fatalf("unexpected name %q", src.Name())
	}
}
