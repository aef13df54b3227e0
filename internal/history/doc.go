// Package history persists an optional journal of tagging runs in SQLite.
//
// Each non-dry run inserts a row into runs when it starts, one row into files
// for every record that gained keywords or failed to save, and updates the
// run totals when it finishes. The `history` command reads the journal back
// for display. The schema is embedded and versioned; a database written by a
// different schema version is rejected with ErrSchemaMismatch.
package history
