// Package genres maps the primary catalog's numeric genre codes to display
// names. Unknown codes have no display name; they are never an error.
package genres

import "strings"

var names = map[int64]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

// Code resolves a genre display name back to its code, case-insensitively.
func Code(name string) (int64, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for id, candidate := range names {
		if strings.ToLower(candidate) == needle {
			return id, true
		}
	}
	return 0, false
}

// Name returns the display name for a genre code.
func Name(id int64) (string, bool) {
	name, ok := names[id]
	return name, ok
}

// Join renders the known names among the given codes as a comma-separated
// list, silently skipping unknown codes.
func Join(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}
