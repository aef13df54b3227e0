package preflight

import (
	"context"
	"net/http"

	"keywordtagger/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for a run over target. Write access
// is only required when the run may modify files.
func RunAll(cfg *config.Config, target string, dryRun bool) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if dryRun {
		results = append(results, CheckDirectoryReadable("Target directory", target))
		return results
	}

	results = append(results, CheckDirectoryAccess("Target directory", target))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	return results
}

// RunRemote executes the checks for enabled remote providers.
func RunRemote(ctx context.Context, cfg *config.Config, client *http.Client) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	if cfg.Providers.TMDB {
		results = append(results, CheckTMDB(ctx, cfg.TMDB.BaseURL, cfg.TMDB.APIKey, client))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
