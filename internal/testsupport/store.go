package testsupport

import (
	"context"
	"testing"

	"shortlist/internal/config"
	"shortlist/internal/watchlist"
)

// MustOpenStore opens a watchlist.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *watchlist.Store {
	t.Helper()

	store, err := watchlist.Open(cfg)
	if err != nil {
		t.Fatalf("watchlist.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedTitles adds the given titles and returns the stored entries in list
// order.
func SeedTitles(t testing.TB, store *watchlist.Store, titles ...string) []watchlist.Entry {
	t.Helper()

	if _, err := store.AddMany(context.Background(), titles, watchlist.MediaTypeUnknown); err != nil {
		t.Fatalf("store.AddMany: %v", err)
	}
	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("store.List: %v", err)
	}
	return entries
}
