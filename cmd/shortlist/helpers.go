package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shortlist/internal/genres"
	"shortlist/internal/query"
	"shortlist/internal/watchlist"
)

// filterFlags carries the selection flags shared by list and pick.
type filterFlags struct {
	search    string
	mediaType string
	genre     string
	language  string
	minRating float64
	watched   bool
	unwatched bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Filter by title substring")
	cmd.Flags().StringVarP(&f.mediaType, "type", "t", "", "Filter by media type (movie, tv)")
	cmd.Flags().StringVarP(&f.genre, "genre", "g", "", "Filter by genre name or code")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "Filter by original language code")
	cmd.Flags().Float64Var(&f.minRating, "min-rating", 0, "Minimum composite score (0-10)")
	cmd.Flags().BoolVar(&f.watched, "watched", false, "Only watched entries")
	cmd.Flags().BoolVar(&f.unwatched, "unwatched", false, "Only unwatched entries")
}

func (f *filterFlags) build() (query.Filters, error) {
	filters := query.Filters{
		Search:    f.search,
		Language:  f.language,
		MinRating: f.minRating,
	}

	if strings.TrimSpace(f.mediaType) != "" {
		mediaType, ok := watchlist.ParseMediaType(f.mediaType)
		if !ok {
			return query.Filters{}, fmt.Errorf("unknown media type %q", f.mediaType)
		}
		filters.MediaType = mediaType
	}

	if f.watched && f.unwatched {
		return query.Filters{}, fmt.Errorf("--watched and --unwatched are mutually exclusive")
	}
	if f.watched {
		value := true
		filters.Watched = &value
	}
	if f.unwatched {
		value := false
		filters.Watched = &value
	}

	if raw := strings.TrimSpace(f.genre); raw != "" {
		if code, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.GenreID = code
		} else if code, ok := genres.Code(raw); ok {
			filters.GenreID = code
		} else {
			return query.Filters{}, fmt.Errorf("unknown genre %q", raw)
		}
	}

	return filters, nil
}

// resolveEntry maps a user-supplied reference to a stored entry. A positive
// integer selects by 1-based list position, anything else matches the entry
// id exactly or by unique prefix.
func resolveEntry(ctx context.Context, store *watchlist.Store, ref string) (*watchlist.Entry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("entry reference is required")
	}

	entries, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(entries) {
			return nil, fmt.Errorf("entry %d out of range (list has %d entries)", index, len(entries))
		}
		entry := entries[index-1]
		return &entry, nil
	}

	var match *watchlist.Entry
	for i := range entries {
		if entries[i].ID == ref {
			return &entries[i], nil
		}
		if strings.HasPrefix(entries[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("entry id prefix %q is ambiguous", ref)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no entry matches %q", ref)
	}
	return match, nil
}

// entryView is the JSON projection of an entry for --json output.
type entryView struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	MediaType        string   `json:"media_type"`
	CatalogID        int64    `json:"catalog_id,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	PosterPath       string   `json:"poster_path,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
	VoteAverage      float64  `json:"vote_average,omitempty"`
	VoteCount        int64    `json:"vote_count,omitempty"`
	IMDBRating       *float64 `json:"imdb_rating,omitempty"`
	IMDBID           string   `json:"imdb_id,omitempty"`
	RTRating         *int     `json:"rt_rating,omitempty"`
	Metacritic       *int     `json:"metacritic,omitempty"`
	Score            *float64 `json:"score,omitempty"`
	DetailsFetched   bool     `json:"details_fetched"`
	Watched          bool     `json:"watched"`
	AddedAt          string   `json:"added_at,omitempty"`
}

func newEntryView(entry watchlist.Entry) entryView {
	view := entryView{
		ID:               entry.ID,
		Title:            entry.Title,
		MediaType:        string(entry.MediaType),
		CatalogID:        entry.CatalogID,
		Overview:         entry.Overview,
		PosterPath:       entry.PosterPath,
		ReleaseDate:      entry.ReleaseDate,
		OriginalLanguage: entry.OriginalLanguage,
		Popularity:       entry.Popularity,
		VoteAverage:      entry.VoteAverage,
		VoteCount:        entry.VoteCount,
		IMDBRating:       entry.IMDBRating,
		IMDBID:           entry.IMDBID,
		RTRating:         entry.RTRating,
		Metacritic:       entry.Metacritic,
		DetailsFetched:   entry.DetailsFetched,
		Watched:          entry.Watched,
	}
	if entry.OriginalTitle != entry.Title {
		view.OriginalTitle = entry.OriginalTitle
	}
	for _, id := range entry.GenreIDs {
		if name, ok := genres.Name(id); ok {
			view.Genres = append(view.Genres, name)
		}
	}
	if score, ok := query.CompositeScore(entry); ok {
		view.Score = &score
	}
	if !entry.AddedAt.IsZero() {
		view.AddedAt = entry.AddedAt.UTC().Format(time.RFC3339)
	}
	return view
}

func formatScore(entry watchlist.Entry) string {
	score, ok := query.CompositeScore(entry)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func formatYear(entry watchlist.Entry) string {
	if year := entry.ReleaseYear(); year != "" {
		return year
	}
	return "-"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
