// Package tmdb wraps the subset of The Movie Database (TMDB) API used to look
// up keywords for a movie by its IMDb identifier.
//
// The client lives behind a small interface so tests and alternative sources
// can substitute their own implementation. Requests honour context
// cancellation and the configured HTTP timeout, carry the API key as a query
// parameter, and surface non-200 responses together with the observed
// latency.
//
// Source adapts the client to the keyword provider contract used by the
// reconciler.
package tmdb
