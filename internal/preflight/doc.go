// Package preflight provides readiness checks for the filesystem paths and
// remote services keywordtagger depends on.
//
// These checks run in two contexts:
//   - The tagging command calls RunAll before walking the target so a
//     read-only library is reported once up front instead of once per file.
//   - "keywordtagger config validate" runs the same checks plus CheckTMDB and
//     renders them as a table.
//
// Each check is gated by its config toggle; disabled providers are skipped.
package preflight
