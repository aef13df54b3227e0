// Package keywords implements the keyword set shared by the local NFO reader,
// the remote providers, and the reconciler.
//
// Keywords are case-sensitive. Every value is trimmed of surrounding
// whitespace and normalized to Unicode NFC before it enters a set so the same
// word coming from TMDB and from a hand-edited file compares equal regardless
// of how its accents were encoded. Empty values are dropped.
package keywords
