package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"shortlist/internal/catalog/omdb"
	"shortlist/internal/catalog/tmdb"
	"shortlist/internal/notifications"
	"shortlist/internal/watchlist"
)

// ErrNotConfigured indicates enrichment was requested without a primary
// catalog client, which usually means the TMDB API key is missing.
var ErrNotConfigured = errors.New("enrichment requires a TMDB API key")

// RatingsLookup is the secondary catalog operation the enricher depends on.
type RatingsLookup interface {
	LookupRatings(ctx context.Context, title, year string) (*omdb.Ratings, error)
}

var _ RatingsLookup = (*omdb.Client)(nil)

// Failure records one entry that raised an error during enrichment.
type Failure struct {
	Title string
	Err   error
}

// Report summarises one enrichment batch.
type Report struct {
	Targets   int
	Enriched  int
	NoMatches []string
	Failures  []Failure
	Duration  time.Duration
}

// Failed returns the number of entries that raised an error.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Options configures an Enricher.
type Options struct {
	// Delay is the minimum spacing between per-entry catalog lookups.
	Delay    time.Duration
	Notifier notifications.Service
	Logger   *slog.Logger
}

// Enricher fills watch-list entries with catalog metadata and ratings. A nil
// ratings lookup disables the secondary pass.
type Enricher struct {
	store    *watchlist.Store
	searcher tmdb.Searcher
	ratings  RatingsLookup
	pacer    *Pacer
	notifier notifications.Service
	logger   *slog.Logger
}

// New creates an enricher backed by the given store and catalog clients.
func New(store *watchlist.Store, searcher tmdb.Searcher, ratings RatingsLookup, opts Options) *Enricher {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Enricher{
		store:    store,
		searcher: searcher,
		ratings:  ratings,
		pacer:    NewPacer(opts.Delay),
		notifier: notifier,
		logger:   logger.With("component", "enrich"),
	}
}

// EnrichAll runs one enrichment batch. Without forceAll it only visits
// entries that still lack catalog details, plus entries missing ratings when
// a secondary catalog is configured. Individual failures never abort the
// batch; they are collected in the report.
func (e *Enricher) EnrichAll(ctx context.Context, forceAll bool) (*Report, error) {
	if e.searcher == nil {
		return nil, ErrNotConfigured
	}

	entries, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	var targets []watchlist.Entry
	for _, entry := range entries {
		if forceAll || e.needsEnrichment(entry) {
			targets = append(targets, entry)
		}
	}

	report := &Report{Targets: len(targets)}
	if len(targets) == 0 {
		e.logger.Info("nothing to enrich")
		return report, nil
	}

	started := time.Now()
	if err := e.notifier.NotifyEnrichmentStarted(ctx, len(targets)); err != nil {
		e.logger.Warn("start notification failed", "error", err)
	}

	abort := func(err error) (*Report, error) {
		report.Duration = time.Since(started)
		if notifyErr := e.notifier.NotifyError(context.WithoutCancel(ctx), err, "enrichment"); notifyErr != nil {
			e.logger.Warn("error notification failed", "error", notifyErr)
		}
		return report, err
	}

	for _, entry := range targets {
		// The pacer's first pass is free, so this throttles the gap between
		// items rather than delaying the batch start.
		if err := e.pacer.Wait(ctx); err != nil {
			return abort(err)
		}
		if err := e.enrichOne(ctx, &entry, forceAll); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return abort(err)
			}
			if errors.Is(err, errNoMatch) {
				e.logger.Warn("no catalog match", "title", entry.Title)
				report.NoMatches = append(report.NoMatches, entry.Title)
				continue
			}
			e.logger.Error("enrichment failed", "title", entry.Title, "error", err)
			report.Failures = append(report.Failures, Failure{Title: entry.Title, Err: err})
			continue
		}
		report.Enriched++
	}

	report.Duration = time.Since(started)
	if err := e.notifier.NotifyEnrichmentCompleted(ctx, report.Enriched, report.Failed(), report.Duration); err != nil {
		e.logger.Warn("completion notification failed", "error", err)
	}
	e.logger.Info("enrichment finished",
		"targets", report.Targets,
		"enriched", report.Enriched,
		"no_match", len(report.NoMatches),
		"failed", report.Failed(),
		"duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

// FixMatch replaces an entry's catalog identity with a specific TMDB record,
// for when the search picked the wrong title. The media type decides which
// detail endpoint is used.
func (e *Enricher) FixMatch(ctx context.Context, id string, catalogID int64, mediaType watchlist.MediaType) (*watchlist.Entry, error) {
	if e.searcher == nil {
		return nil, ErrNotConfigured
	}

	entry, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("entry %s not found", id)
	}

	var result *tmdb.Result
	switch mediaType {
	case watchlist.MediaTypeTV:
		result, err = e.searcher.GetTVDetails(ctx, catalogID)
	default:
		result, err = e.searcher.GetMovieDetails(ctx, catalogID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch catalog record %d: %w", catalogID, err)
	}
	if result.MediaType == "" {
		if mediaType == watchlist.MediaTypeTV {
			result.MediaType = "tv"
		} else {
			result.MediaType = "movie"
		}
	}

	applyResult(entry, result)
	if e.ratings != nil {
		if err := e.applyRatings(ctx, entry); err != nil {
			e.logger.Warn("ratings refresh failed", "title", entry.Title, "error", err)
		}
	}
	if err := e.store.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	e.logger.Info("match corrected", "title", entry.Title, "catalog_id", catalogID)
	return entry, nil
}

var errNoMatch = errors.New("no catalog match")

func (e *Enricher) needsEnrichment(entry watchlist.Entry) bool {
	if !entry.DetailsFetched {
		return true
	}
	return e.ratings != nil && !entry.HasRatings()
}

func (e *Enricher) enrichOne(ctx context.Context, entry *watchlist.Entry, force bool) error {
	if force || !entry.DetailsFetched {
		resp, err := e.searcher.SearchMulti(ctx, entry.Title)
		if err != nil {
			return err
		}
		match := tmdb.BestMatch(resp)
		if match == nil {
			return errNoMatch
		}
		applyResult(entry, match)
	}

	if e.ratings != nil {
		if err := e.applyRatings(ctx, entry); err != nil {
			// Prior ratings stay untouched so a transient outage never
			// erases data already on the entry.
			if updateErr := e.store.Update(ctx, entry); updateErr != nil {
				return updateErr
			}
			return err
		}
	}

	return e.store.Update(ctx, entry)
}

// applyResult merges catalog metadata into the entry. The original import
// string is kept in OriginalTitle as a fallback for display and re-matching.
func applyResult(entry *watchlist.Entry, result *tmdb.Result) {
	if entry.OriginalTitle == "" {
		entry.OriginalTitle = entry.Title
	}
	if title := result.DisplayTitle(); title != "" {
		entry.Title = title
	}
	if result.MediaType != "" {
		if parsed, ok := watchlist.ParseMediaType(result.MediaType); ok {
			entry.MediaType = parsed
		}
	}
	entry.CatalogID = result.ID
	entry.Overview = result.Overview
	entry.PosterPath = result.PosterPath
	entry.BackdropPath = result.BackdropPath
	entry.ReleaseDate = result.DisplayDate()
	entry.OriginalLanguage = result.OriginalLanguage
	entry.GenreIDs = result.GenreIDList()
	entry.Popularity = result.Popularity
	entry.VoteAverage = result.VoteAverage
	entry.VoteCount = result.VoteCount
	entry.DetailsFetched = true
}

func (e *Enricher) applyRatings(ctx context.Context, entry *watchlist.Entry) error {
	ratings, err := e.ratings.LookupRatings(ctx, entry.Title, entry.ReleaseYear())
	if err != nil {
		return err
	}
	if ratings == nil {
		return nil
	}
	entry.IMDBRating = ratings.IMDBRating
	entry.IMDBID = ratings.IMDBID
	entry.RTRating = ratings.RTRating
	entry.Metacritic = ratings.Metacritic
	return nil
}
