// Package nfo reads and rewrites Kodi movie NFO documents.
//
// Load accepts only the exact shape keywordtagger understands: a <movie>
// root with a single <id> child holding an IMDb identifier. Everything else is
// reported as ErrNotRecord so callers can skip it quietly. A Record keeps the
// full parsed tree, so Save writes back every element it read, plus any <tag>
// elements appended in between.
package nfo
