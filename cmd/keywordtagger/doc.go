// Package main hosts the keywordtagger CLI entrypoint and command graph.
//
// The root command walks a library directory and appends remote keywords to
// movie NFO files. Subcommands scaffold and validate configuration and show
// the run journal. Configuration resolution, logger setup, and run IDs are
// centralized here so the internal packages stay free of CLI concerns.
package main
