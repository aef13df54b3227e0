package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"keywordtagger/internal/history"
	"keywordtagger/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-1", "/movies"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.RecordFile(ctx, "run-1", history.FileEntry{
		Path:   "/movies/heat.nfo",
		IMDbID: "tt0113277",
		Added:  []string{"heist", "los angeles"},
	}); err != nil {
		t.Fatalf("RecordFile failed: %v", err)
	}
	if err := store.RecordFile(ctx, "run-1", history.FileEntry{
		Path:   "/movies/readonly.nfo",
		IMDbID: "tt0133093",
		Error:  "permission denied",
	}); err != nil {
		t.Fatalf("RecordFile failed: %v", err)
	}
	if err := store.FinishRun(ctx, history.Run{ID: "run-1", Records: 3, Updated: 1, KeywordsAdded: 2, Failures: 1}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.Target != "/movies" || run.Records != 3 || run.Updated != 1 || run.KeywordsAdded != 2 || run.Failures != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if !run.Finished() || run.StartedAt.IsZero() {
		t.Fatalf("expected timestamps, got %+v", run)
	}

	files, err := store.RunFiles(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected two file entries, got %d", len(files))
	}
	if !reflect.DeepEqual(files[0].Added, []string{"heist", "los angeles"}) || files[0].Error != "" {
		t.Fatalf("unexpected first entry: %+v", files[0])
	}
	if files[1].Added != nil || files[1].Error != "permission denied" {
		t.Fatalf("unexpected second entry: %+v", files[1])
	}
}

func TestRecentRunsNewestFirstAndLimited(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.BeginRun(ctx, id, "/movies"); err != nil {
			t.Fatalf("BeginRun %s failed: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected ordering: %+v", runs)
	}
	if runs[0].Finished() {
		t.Fatal("unfinished run should report Finished() == false")
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openStore(t)
	if err := store.FinishRun(context.Background(), history.Run{ID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestReopenKeepsJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if err := store.BeginRun(context.Background(), "run-1", "/movies"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	_ = store.Close()

	reopened, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.RecentRuns(context.Background(), 10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %v err=%v", runs, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := history.OpenPath(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRejectsUnstampedJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE schema_version (version INTEGER NOT NULL)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = db.Close()

	_, err = history.OpenPath(path)
	if err == nil || !strings.Contains(err.Error(), "no schema version row") {
		t.Fatalf("expected missing version row error, got %v", err)
	}
}
