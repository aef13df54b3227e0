// Package logging assembles the structured slog loggers used by keywordtagger.
//
// It owns the console and JSON handlers, level parsing, the optional rotating
// log file, and context helpers that tag every line with the run ID. Logs are
// written to stderr so stdout stays reserved for the per-file report. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
