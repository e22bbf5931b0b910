package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestEnrichNothingPending(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "enrich")
	requireContains(t, out, "Nothing to enrich")
}

func TestEnrichFetchesMetadataAndRatings(t *testing.T) {
	env := setupCLITestEnv(t)

	tmdbSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/search/multi") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"page": 1,
			"results": [{
				"id": 27205,
				"title": "Inception",
				"overview": "A thief who steals corporate secrets.",
				"release_date": "2010-07-16",
				"media_type": "movie",
				"original_language": "en",
				"genre_ids": [878, 28],
				"vote_average": 8.4,
				"vote_count": 31000
			}],
			"total_pages": 1,
			"total_results": 1
		}`)
	}))
	defer tmdbSrv.Close()

	omdbSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") != "Inception" {
			fmt.Fprint(w, `{"Response": "False", "Error": "Movie not found!"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"Response": "True",
			"imdbRating": "8.8",
			"imdbID": "tt1375666",
			"Metascore": "74",
			"Ratings": [{"Source": "Rotten Tomatoes", "Value": "87%"}]
		}`)
	}))
	defer omdbSrv.Close()

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[tmdb]
api_key = "test"
base_url = %q

[omdb]
api_key = "test"
base_url = %q

[enrichment]
delay_ms = 0
`, env.dataDir, env.baseDir+"/logs", tmdbSrv.URL, omdbSrv.URL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	mustRunCLI(t, env, "add", "inception")

	out := mustRunCLI(t, env, "enrich")
	requireContains(t, out, "Enriched 1 of 1")

	out = mustRunCLI(t, env, "show", "1")
	requireContains(t, out, "Title:        Inception")
	requireContains(t, out, "IMDb:         8.8")
	requireContains(t, out, "RT:           87%")
	requireContains(t, out, "Score:        8.8")
}
