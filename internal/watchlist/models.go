package watchlist

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// MediaType classifies an entry by the primary catalog's discriminator.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeUnknown MediaType = "unknown"
)

// ParseMediaType converts a string into a known MediaType.
func ParseMediaType(value string) (MediaType, bool) {
	switch MediaType(strings.ToLower(strings.TrimSpace(value))) {
	case MediaTypeMovie:
		return MediaTypeMovie, true
	case MediaTypeTV, "show", "series":
		return MediaTypeTV, true
	case MediaTypeUnknown, "":
		return MediaTypeUnknown, true
	default:
		return MediaTypeUnknown, false
	}
}

// Entry represents one tracked title.
//
// ID is assigned at creation and never reused. Title is overwritten by
// enrichment; OriginalTitle keeps the imported string as a fallback. The
// rating pointers are nil until a secondary-catalog lookup succeeds, so a
// zero score can be told apart from "never fetched".
type Entry struct {
	ID               string
	Title            string
	OriginalTitle    string
	MediaType        MediaType
	CatalogID        int64
	Overview         string
	PosterPath       string
	BackdropPath     string
	ReleaseDate      string
	OriginalLanguage string
	GenreIDs         []int64
	Popularity       float64
	VoteAverage      float64
	VoteCount        int64
	IMDBRating       *float64
	IMDBID           string
	RTRating         *int
	Metacritic       *int
	DetailsFetched   bool
	Watched          bool
	AddedAt          time.Time
}

// NewEntry is one title queued for insertion, used by the bulk importers.
type NewEntry struct {
	Title     string
	MediaType MediaType
}

// ReleaseYear derives the 4-digit year from the release date, or "" when the
// date is absent or malformed.
func (e Entry) ReleaseYear() string {
	date := strings.TrimSpace(e.ReleaseDate)
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}

// HasGenre reports whether the entry carries the given genre code.
func (e Entry) HasGenre(id int64) bool {
	for _, g := range e.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// HasRatings reports whether any secondary-catalog rating is present.
func (e Entry) HasRatings() bool {
	return e.IMDBRating != nil || e.RTRating != nil
}

var foldCaser = cases.Fold()

// TitleKey returns the canonical duplicate-detection key for a title:
// trimmed and Unicode case-folded.
func TitleKey(title string) string {
	return foldCaser.String(strings.TrimSpace(title))
}
