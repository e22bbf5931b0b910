package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"shortlist/internal/catalog/omdb"
	"shortlist/internal/catalog/tmdb"
	"shortlist/internal/testsupport"
	"shortlist/internal/watchlist"
)

type fakeSearcher struct {
	searchCalls int
	searchTimes []time.Time
	results     map[string][]tmdb.Result
	searchErr   map[string]error
	detail      *tmdb.Result
	detailErr   error
	detailCalls int
}

func (f *fakeSearcher) SearchMulti(_ context.Context, query string) (*tmdb.Response, error) {
	f.searchCalls++
	f.searchTimes = append(f.searchTimes, time.Now())
	if err := f.searchErr[query]; err != nil {
		return nil, err
	}
	results := f.results[query]
	return &tmdb.Response{Results: results, TotalResults: len(results)}, nil
}

func (f *fakeSearcher) GetMovieDetails(_ context.Context, movieID int64) (*tmdb.Result, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	result := *f.detail
	result.ID = movieID
	return &result, nil
}

func (f *fakeSearcher) GetTVDetails(ctx context.Context, showID int64) (*tmdb.Result, error) {
	return f.GetMovieDetails(ctx, showID)
}

type fakeRatings struct {
	calls     int
	ratings   *omdb.Ratings
	err       error
	lastTitle string
	lastYear  string
}

func (f *fakeRatings) LookupRatings(_ context.Context, title, year string) (*omdb.Ratings, error) {
	f.calls++
	f.lastTitle = title
	f.lastYear = year
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func movieResult(id int64, title string) tmdb.Result {
	return tmdb.Result{
		ID:               id,
		Title:            title,
		Overview:         "overview of " + title,
		PosterPath:       "/poster.jpg",
		ReleaseDate:      "2010-07-16",
		MediaType:        "movie",
		OriginalLanguage: "en",
		GenreIDs:         []int64{878, 28},
		Popularity:       42.5,
		VoteAverage:      8.4,
		VoteCount:        31000,
	}
}

func TestEnrichAllFillsDetailsAndRatings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "inception")

	searcher := &fakeSearcher{results: map[string][]tmdb.Result{
		"inception": {movieResult(27205, "Inception")},
	}}
	ratings := &fakeRatings{ratings: &omdb.Ratings{
		IMDBRating: floatPtr(8.8),
		IMDBID:     "tt1375666",
		RTRating:   intPtr(87),
		Metacritic: intPtr(74),
	}}

	enricher := New(store, searcher, ratings, Options{})
	report, err := enricher.EnrichAll(context.Background(), false)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if report.Targets != 1 || report.Enriched != 1 || report.Failed() != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	entry, err := store.Get(context.Background(), seeded[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !entry.DetailsFetched {
		t.Fatal("expected DetailsFetched")
	}
	if entry.Title != "Inception" {
		t.Fatalf("Title = %q", entry.Title)
	}
	if entry.OriginalTitle != "inception" {
		t.Fatalf("OriginalTitle = %q, want imported string preserved", entry.OriginalTitle)
	}
	if entry.MediaType != watchlist.MediaTypeMovie {
		t.Fatalf("MediaType = %q", entry.MediaType)
	}
	if entry.CatalogID != 27205 {
		t.Fatalf("CatalogID = %d", entry.CatalogID)
	}
	if entry.IMDBRating == nil || *entry.IMDBRating != 8.8 {
		t.Fatalf("IMDBRating = %v", entry.IMDBRating)
	}
	if entry.RTRating == nil || *entry.RTRating != 87 {
		t.Fatalf("RTRating = %v", entry.RTRating)
	}
	if ratings.lastTitle != "Inception" || ratings.lastYear != "2010" {
		t.Fatalf("ratings lookup used %q/%q, want enriched title and year", ratings.lastTitle, ratings.lastYear)
	}
}

func TestEnrichAllSkipsCompletedEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "Dune")

	entry := seeded[0]
	entry.DetailsFetched = true
	entry.IMDBRating = floatPtr(8.0)
	if err := store.Update(context.Background(), &entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	searcher := &fakeSearcher{}
	ratings := &fakeRatings{}
	enricher := New(store, searcher, ratings, Options{})

	report, err := enricher.EnrichAll(context.Background(), false)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if report.Targets != 0 {
		t.Fatalf("Targets = %d, want 0", report.Targets)
	}
	if searcher.searchCalls != 0 || ratings.calls != 0 {
		t.Fatalf("expected no catalog calls, got %d search / %d ratings", searcher.searchCalls, ratings.calls)
	}
}

func TestEnrichAllRetriesMissingRatingsOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "Arrival")

	entry := seeded[0]
	entry.DetailsFetched = true
	entry.ReleaseDate = "2016-11-11"
	if err := store.Update(context.Background(), &entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	searcher := &fakeSearcher{}
	ratings := &fakeRatings{ratings: &omdb.Ratings{IMDBRating: floatPtr(7.9)}}
	enricher := New(store, searcher, ratings, Options{})

	report, err := enricher.EnrichAll(context.Background(), false)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if report.Targets != 1 || report.Enriched != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if searcher.searchCalls != 0 {
		t.Fatalf("expected no primary search for a fetched entry, got %d", searcher.searchCalls)
	}
	if ratings.calls != 1 {
		t.Fatalf("ratings calls = %d, want 1", ratings.calls)
	}
}

func TestEnrichAllSpacesEveryConsecutiveLookup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedTitles(t, store, "Heat", "Ran", "Dune")

	searcher := &fakeSearcher{results: map[string][]tmdb.Result{
		"Heat": {movieResult(949, "Heat")},
		"Ran":  {movieResult(11645, "Ran")},
		"Dune": {movieResult(438631, "Dune")},
	}}

	const delay = 50 * time.Millisecond
	enricher := New(store, searcher, nil, Options{Delay: delay})

	if _, err := enricher.EnrichAll(context.Background(), false); err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if len(searcher.searchTimes) != 3 {
		t.Fatalf("search calls = %d, want 3", len(searcher.searchTimes))
	}
	// Allow a sliver of scheduling noise between the pacer pass and the call.
	const tolerance = 5 * time.Millisecond
	for i := 1; i < len(searcher.searchTimes); i++ {
		gap := searcher.searchTimes[i].Sub(searcher.searchTimes[i-1])
		if gap < delay-tolerance {
			t.Fatalf("gap between lookups %d and %d was %v, want at least %v", i-1, i, gap, delay)
		}
	}
}

func TestEnrichAllRecordsFailuresAndContinues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedTitles(t, store, "broken", "Heat")

	searcher := &fakeSearcher{
		results: map[string][]tmdb.Result{
			"Heat": {movieResult(949, "Heat")},
		},
		searchErr: map[string]error{
			"broken": errors.New("tmdb unavailable"),
		},
	}
	enricher := New(store, searcher, nil, Options{})

	report, err := enricher.EnrichAll(context.Background(), false)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if report.Targets != 2 || report.Enriched != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Failed() != 1 || report.Failures[0].Title != "broken" {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}
}

func TestEnrichAllLeavesUnmatchedEntriesPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "zzz nonexistent")

	searcher := &fakeSearcher{}
	enricher := New(store, searcher, nil, Options{})

	report, err := enricher.EnrichAll(context.Background(), false)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if len(report.NoMatches) != 1 || report.NoMatches[0] != "zzz nonexistent" {
		t.Fatalf("NoMatches = %v", report.NoMatches)
	}
	if report.Failed() != 0 {
		t.Fatalf("no-match should not count as failure: %+v", report.Failures)
	}

	entry, err := store.Get(context.Background(), seeded[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.DetailsFetched {
		t.Fatal("unmatched entry should stay pending for the next batch")
	}
}

func TestEnrichAllPreservesRatingsOnSecondaryFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "Inception")

	entry := seeded[0]
	entry.DetailsFetched = true
	entry.IMDBRating = floatPtr(8.8)
	entry.RTRating = intPtr(87)
	if err := store.Update(context.Background(), &entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	searcher := &fakeSearcher{results: map[string][]tmdb.Result{
		"Inception": {movieResult(27205, "Inception")},
	}}
	ratings := &fakeRatings{err: errors.New("omdb unavailable")}
	enricher := New(store, searcher, ratings, Options{})

	report, err := enricher.EnrichAll(context.Background(), true)
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if report.Failed() != 1 {
		t.Fatalf("expected one failure, got %+v", report)
	}

	stored, err := store.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.IMDBRating == nil || *stored.IMDBRating != 8.8 {
		t.Fatalf("IMDBRating = %v, want prior value preserved", stored.IMDBRating)
	}
	if stored.RTRating == nil || *stored.RTRating != 87 {
		t.Fatalf("RTRating = %v, want prior value preserved", stored.RTRating)
	}
}

func TestEnrichAllWithoutSecondaryCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "Heat")

	searcher := &fakeSearcher{results: map[string][]tmdb.Result{
		"Heat": {movieResult(949, "Heat")},
	}}
	enricher := New(store, searcher, nil, Options{})

	if _, err := enricher.EnrichAll(context.Background(), false); err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}

	entry, err := store.Get(context.Background(), seeded[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !entry.DetailsFetched {
		t.Fatal("expected details without ratings")
	}
	if entry.HasRatings() {
		t.Fatal("no secondary catalog, ratings should stay absent")
	}
}

func TestEnrichAllRequiresPrimaryCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	enricher := New(store, nil, nil, Options{})
	if _, err := enricher.EnrichAll(context.Background(), false); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestFixMatchReplacesCatalogIdentity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedTitles(t, store, "Dune")

	entry := seeded[0]
	entry.DetailsFetched = true
	entry.CatalogID = 841
	if err := store.Update(context.Background(), &entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	detail := movieResult(0, "Dune: Part Two")
	detail.MediaType = ""
	searcher := &fakeSearcher{detail: &detail}
	enricher := New(store, searcher, nil, Options{})

	updated, err := enricher.FixMatch(context.Background(), entry.ID, 693134, watchlist.MediaTypeMovie)
	if err != nil {
		t.Fatalf("FixMatch: %v", err)
	}
	if updated.CatalogID != 693134 {
		t.Fatalf("CatalogID = %d", updated.CatalogID)
	}
	if updated.Title != "Dune: Part Two" {
		t.Fatalf("Title = %q", updated.Title)
	}
	if updated.MediaType != watchlist.MediaTypeMovie {
		t.Fatalf("MediaType = %q", updated.MediaType)
	}

	stored, err := store.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.CatalogID != 693134 {
		t.Fatalf("stored CatalogID = %d, want persisted fix", stored.CatalogID)
	}
}

func TestFixMatchUnknownEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	searcher := &fakeSearcher{detail: &tmdb.Result{Title: "x"}}
	enricher := New(store, searcher, nil, Options{})

	if _, err := enricher.FixMatch(context.Background(), "missing-id", 1, watchlist.MediaTypeMovie); err == nil {
		t.Fatal("expected error for unknown entry id")
	}
}
