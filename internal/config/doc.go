// Package config loads, normalizes, and validates keywordtagger configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TMDB_API_KEY environment
// fallback. Provider toggles, the TMDB credentials, scan rules, state paths,
// and logging knobs all live on the Config type so callers receive one
// sanitized value instead of reaching for globals.
package config
