// Package provider assembles the remote keyword sources enabled in
// configuration and exposes them as a single Fetcher.
//
// Each Source answers for one upstream (TMDB, IMDb). Fetch queries every
// enabled source once, unions their keyword sets, and joins any source
// errors so callers can log a partial failure while keeping whatever was
// returned.
package provider
