// Package query derives view-ready orderings of watch-list entries.
//
// It owns the composite score blending both catalogs' ratings, the
// AND-conjunction filter set, stable sorting by score/title/release date,
// and uniform random selection. Everything here is a pure function over
// entries read from the store; nothing is persisted.
package query
