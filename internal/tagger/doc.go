// Package tagger drives a tagging run over a directory tree.
//
// For every NFO file the discoverer yields, the runner loads the record,
// reports its path, and (unless in dry-run mode) appends the remote keywords
// the record is missing and saves it. Files that are not movie records are
// skipped silently. Per-file failures are logged and counted; they never
// abort the run. Only a missing or non-directory target is fatal, reported
// as ErrUsage before any work starts.
package tagger
