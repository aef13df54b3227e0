package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"keywordtagger/internal/nfo"
	"keywordtagger/internal/runlock"
	"keywordtagger/internal/tagger"
	"keywordtagger/internal/testsupport"
)

type cliTestEnv struct {
	library    string
	stateDir   string
	configPath string
	server     *testsupport.TMDBServer
}

func setupCLITestEnv(t *testing.T, remote map[string][]string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("TMDB_API_KEY", "")

	env := &cliTestEnv{
		library:    filepath.Join(base, "library"),
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "keywordtagger.toml"),
		server:     testsupport.NewTMDBServer(t, remote),
	}
	if err := os.MkdirAll(env.library, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}
	writeTestConfig(t, env.configPath, "test-key", env.server.URL, env.stateDir)
	return env
}

func writeTestConfig(t *testing.T, path, apiKey, baseURL, stateDir string) {
	t.Helper()
	content := fmt.Sprintf(
		"[tmdb]\napi_key = %q\nbase_url = %q\n\n[paths]\nstate_dir = %q\n\n[history]\nenabled = true\n",
		apiKey, baseURL, stateDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func tagsOf(t *testing.T, path string) []string {
	t.Helper()
	rec, err := nfo.Load(path)
	if err != nil {
		t.Fatalf("Load %s: %v", path, err)
	}
	return rec.LocalKeywords().Sorted()
}

func TestRunCommandTagsLibrary(t *testing.T) {
	env := setupCLITestEnv(t, map[string][]string{"tt0113277": {"heist", "los angeles"}})
	movie := filepath.Join(env.library, "Heat (1995)", "movie.nfo")
	show := filepath.Join(env.library, "Breaking Bad", "tvshow.nfo")
	testsupport.WriteNFO(t, movie, "tt0113277", "crime")
	testsupport.WriteFile(t, show, "<tvshow><id>tt0903747</id></tvshow>")

	out, stderr, err := runCLI(t, []string{env.library}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v (stderr=%s)", err, stderr)
	}
	if strings.TrimSpace(out) != movie {
		t.Fatalf("expected stdout to list only the movie record, got %q", out)
	}
	if got := tagsOf(t, movie); !reflect.DeepEqual(got, []string{"crime", "heist", "los angeles"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	requireContains(t, stderr, "keywords added")
	if _, err := os.Stat(filepath.Join(env.stateDir, "keywordtagger.lock")); err != nil {
		t.Fatalf("expected lock file in state dir: %v", err)
	}
}

func TestRunCommandDryRunDiff(t *testing.T) {
	env := setupCLITestEnv(t, map[string][]string{"tt0113277": {"heist"}})
	movie := filepath.Join(env.library, "movie.nfo")
	testsupport.WriteNFO(t, movie, "tt0113277")
	before := testsupport.Checksum(t, movie)

	out, _, err := runCLI(t, []string{"--dry-run", "--diff", env.library}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != movie+"\n  + heist\n" {
		t.Fatalf("unexpected diff output: %q", out)
	}
	if testsupport.Checksum(t, movie) != before {
		t.Fatal("dry-run modified the file")
	}
	if _, err := os.Stat(env.stateDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry-run must not create the state dir, stat err=%v", err)
	}
}

func TestRunCommandWithoutKeyReportsRecords(t *testing.T) {
	env := setupCLITestEnv(t, map[string][]string{"tt1": {"heist"}})
	writeTestConfig(t, env.configPath, "", env.server.URL, env.stateDir)
	movie := filepath.Join(env.library, "movie.nfo")
	testsupport.WriteNFO(t, movie, "tt1")
	before := testsupport.Checksum(t, movie)

	out, _, err := runCLI(t, []string{"-n", env.library}, env.configPath)
	if err != nil {
		t.Fatalf("dry-run should not need an api key: %v", err)
	}
	requireContains(t, out, movie)

	out, stderr, err := runCLI(t, []string{env.library}, env.configPath)
	if err != nil {
		t.Fatalf("write run without a key should still succeed: %v", err)
	}
	requireContains(t, out, movie)
	requireContains(t, stderr, "tmdb api key missing")
	requireContains(t, stderr, "remote keyword fetch failed")
	if testsupport.Checksum(t, movie) != before {
		t.Fatal("file changed although no keywords could be fetched")
	}
	if env.server.TotalRequests() != 0 {
		t.Fatalf("expected no TMDB requests without a key, got %d", env.server.TotalRequests())
	}
}

func TestRunCommandEmptyLibraryWithoutKey(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	writeTestConfig(t, env.configPath, "", env.server.URL, env.stateDir)

	out, _, err := runCLI(t, []string{env.library}, env.configPath)
	if err != nil {
		t.Fatalf("empty library should exit cleanly, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no report lines, got %q", out)
	}
}

func TestRunCommandMissingTarget(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	absent := filepath.Join(env.library, "absent")

	_, _, err := runCLI(t, []string{absent}, env.configPath)
	if !errors.Is(err, tagger.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := os.Stat(env.stateDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("bad target must not touch the state dir, stat err=%v", err)
	}

	writeTestConfig(t, env.configPath, "", env.server.URL, env.stateDir)
	if _, _, err := runCLI(t, []string{absent}, env.configPath); !errors.Is(err, tagger.ErrUsage) {
		t.Fatalf("expected usage error without a key, got %v", err)
	}

	file := filepath.Join(env.library, "movie.nfo")
	testsupport.WriteNFO(t, file, "tt1")
	if _, _, err := runCLI(t, []string{file}, env.configPath); !errors.Is(err, tagger.ErrUsage) {
		t.Fatalf("expected usage error for a file target, got %v", err)
	}
	if _, err := os.Stat(env.stateDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("bad target must not touch the state dir, stat err=%v", err)
	}
}

func TestRunCommandRejectsExtraArgs(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	if _, _, err := runCLI(t, []string{env.library, env.library}, env.configPath); err == nil {
		t.Fatal("expected error for two targets")
	}
}

func TestRunCommandSummaryFlag(t *testing.T) {
	env := setupCLITestEnv(t, map[string][]string{"tt1": {"x", "y"}})
	testsupport.WriteNFO(t, filepath.Join(env.library, "movie.nfo"), "tt1")

	out, _, err := runCLI(t, []string{"--summary", env.library}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Keywords added")
	requireContains(t, out, "Movie records")
}

func TestRunCommandFailsWhenLocked(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	lock, err := runlock.Acquire(filepath.Join(env.stateDir, "keywordtagger.lock"))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{env.library}, env.configPath)
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunCommandJSONLogs(t *testing.T) {
	env := setupCLITestEnv(t, map[string][]string{"tt1": {"x"}})
	testsupport.WriteNFO(t, filepath.Join(env.library, "movie.nfo"), "tt1")

	_, stderr, err := runCLI(t, []string{"--log-format", "json", env.library}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, stderr, `"run_id":`)
	requireContains(t, stderr, `"msg":"keywords added"`)

	if _, _, err := runCLI(t, []string{"--log-format", "xml", env.library}, env.configPath); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t, map[string][]string{"tt1": {"x"}})
	testsupport.WriteNFO(t, filepath.Join(env.library, "movie.nfo"), "tt1")

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history before any run: %v", err)
	}
	requireContains(t, out, "No history recorded")

	if _, _, err := runCLI(t, []string{env.library}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Records")
	requireContains(t, out, env.library)
}
