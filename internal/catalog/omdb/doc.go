// Package omdb provides the OMDb API client used as the secondary ratings
// catalog.
//
// A lookup is keyed by exact title plus an optional release year and yields
// IMDb, Rotten Tomatoes, and Metacritic scores parsed out of OMDb's
// free-text fields. The "N/A" sentinel and the in-band "not found" flag both
// map to absent values rather than errors.
package omdb
