// Package enrich fills watch-list entries with metadata from the primary
// catalog and ratings from the secondary catalog, pacing requests so a full
// batch stays well under provider rate limits.
package enrich
