// Package tmdb provides the minimal TMDB API client used as the primary
// metadata catalog.
//
// It authenticates requests and exposes multi-type search plus movie/TV
// detail retrieval for fix-match. Responses are strongly typed so enrichment
// can merge them into stored entries, and BestMatch encodes the candidate
// selection policy. Options allow tests to supply custom HTTP clients
// without modifying production code.
package tmdb
