package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"keywordtagger/internal/config"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigInitExpandsHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, _, err := runCLI(t, []string{"config", "init", "--path", "~/conf/keywordtagger.toml"}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	want := filepath.Join(home, "conf", "keywordtagger.toml")
	requireContains(t, out, want)
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected config under home, got %v", err)
	}
}

func TestConfigInitSkipsBrokenConfig(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(broken, []byte("[tmdb\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, broken); err != nil {
		t.Fatalf("config init should not load config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, broken); err == nil {
		t.Fatal("expected validate to fail on malformed config")
	}
}

func TestConfigValidateReportsMissingKey(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	writeTestConfig(t, env.configPath, "", env.server.URL, env.stateDir)

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestConfigValidateCheckRemote(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	tmdbAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(tmdbAPI.Close)
	writeTestConfig(t, env.configPath, "test-key", tmdbAPI.URL, env.stateDir)

	out, _, err := runCLI(t, []string{"config", "validate", "--check-remote"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate --check-remote: %v", err)
	}
	requireContains(t, out, "API reachable")

	writeTestConfig(t, env.configPath, "wrong-key", tmdbAPI.URL, env.stateDir)
	out, _, err = runCLI(t, []string{"config", "validate", "--check-remote"}, env.configPath)
	if err == nil {
		t.Fatal("expected remote check failure")
	}
	requireContains(t, out, "invalid api key")
}
