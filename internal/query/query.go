package query

import (
	"errors"
	"math/rand"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"shortlist/internal/watchlist"
)

// ErrNoEligibleEntries is returned by PickRandom when the filtered set is empty.
var ErrNoEligibleEntries = errors.New("no eligible entries")

// CompositeScore derives the 0-10 ranking value blending both catalogs'
// ratings: the mean of the IMDb score and the rescaled Rotten Tomatoes
// percentage when both are present, either one alone otherwise. The second
// return value is false when neither rating exists. The score is never
// stored; it is recomputed on every use.
func CompositeScore(e watchlist.Entry) (float64, bool) {
	switch {
	case e.IMDBRating != nil && e.RTRating != nil:
		return (*e.IMDBRating + float64(*e.RTRating)/10) / 2, true
	case e.IMDBRating != nil:
		return *e.IMDBRating, true
	case e.RTRating != nil:
		return float64(*e.RTRating) / 10, true
	default:
		return 0, false
	}
}

// Filters describes an AND-conjunction of optional predicates. Zero values
// pass everything through.
type Filters struct {
	// Search is a case-insensitive substring match against the title.
	Search string
	// MediaType restricts to one media type; empty means all.
	MediaType watchlist.MediaType
	// Watched restricts by watched state; nil means all.
	Watched *bool
	// GenreID restricts to entries carrying the genre code; 0 means all.
	GenreID int64
	// Language restricts by original language; empty means all.
	Language string
	// MinRating excludes entries whose composite score is below the
	// threshold. Entries without a score are excluded whenever the
	// threshold is above zero.
	MinRating float64
}

var foldCaser = cases.Fold()

// Apply returns the entries passing every configured filter, preserving
// input order.
func Apply(entries []watchlist.Entry, f Filters) []watchlist.Entry {
	search := foldCaser.String(strings.TrimSpace(f.Search))
	language := strings.ToLower(strings.TrimSpace(f.Language))

	out := make([]watchlist.Entry, 0, len(entries))
	for _, entry := range entries {
		if search != "" && !strings.Contains(foldCaser.String(entry.Title), search) {
			continue
		}
		if f.MediaType != "" && entry.MediaType != f.MediaType {
			continue
		}
		if f.Watched != nil && entry.Watched != *f.Watched {
			continue
		}
		if f.GenreID != 0 && !entry.HasGenre(f.GenreID) {
			continue
		}
		if language != "" && strings.ToLower(entry.OriginalLanguage) != language {
			continue
		}
		if f.MinRating > 0 {
			score, ok := CompositeScore(entry)
			if !ok || score < f.MinRating {
				continue
			}
		}
		out = append(out, entry)
	}
	return out
}

// SortKey selects the comparison field for Sort.
type SortKey string

const (
	SortByScore   SortKey = "score"
	SortByTitle   SortKey = "title"
	SortByRelease SortKey = "date"
)

// ParseSortKey converts a string into a known SortKey.
func ParseSortKey(value string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortByScore:
		return SortByScore, true
	case SortByTitle, "":
		return SortByTitle, true
	case SortByRelease, "release":
		return SortByRelease, true
	default:
		return SortByTitle, false
	}
}

// Sort orders entries in place by the given key and direction. The sort is
// stable, so ties keep their prior (insertion) order. A missing composite
// score compares as 0 and a missing release date as "0000".
func Sort(entries []watchlist.Entry, key SortKey, descending bool) {
	var less func(a, b watchlist.Entry) bool
	switch key {
	case SortByScore:
		less = func(a, b watchlist.Entry) bool {
			scoreA, _ := CompositeScore(a)
			scoreB, _ := CompositeScore(b)
			return scoreA < scoreB
		}
	case SortByRelease:
		less = func(a, b watchlist.Entry) bool {
			return releaseSortValue(a) < releaseSortValue(b)
		}
	default:
		less = func(a, b watchlist.Entry) bool {
			return foldCaser.String(a.Title) < foldCaser.String(b.Title)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}

func releaseSortValue(e watchlist.Entry) string {
	if strings.TrimSpace(e.ReleaseDate) == "" {
		return "0000"
	}
	return e.ReleaseDate
}

// PickRandom selects one entry uniformly at random from an already-filtered
// sequence.
func PickRandom(entries []watchlist.Entry) (watchlist.Entry, error) {
	if len(entries) == 0 {
		return watchlist.Entry{}, ErrNoEligibleEntries
	}
	return entries[rand.Intn(len(entries))], nil
}
