package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shortlist/internal/catalog/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchMultiSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("query") != "Dune" {
			t.Fatalf("unexpected query: %q", r.URL.Query().Get("query"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":438631,"title":"Dune","media_type":"movie","genre_ids":[878,12]}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchMulti(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("SearchMulti returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Dune" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if ids := resp.Results[0].GenreIDList(); len(ids) != 2 || ids[0] != 878 {
		t.Fatalf("unexpected genre ids: %v", ids)
	}
}

func TestSearchMultiHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := client.SearchMulti(context.Background(), "fail"); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
}

func TestSearchMultiEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMulti(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestGetTVDetailsSetsMediaType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399" {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17","genres":[{"id":18,"name":"Drama"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.GetTVDetails(context.Background(), 1399)
	if err != nil {
		t.Fatalf("GetTVDetails returned error: %v", err)
	}
	if result.MediaType != "tv" {
		t.Fatalf("expected media type tv, got %q", result.MediaType)
	}
	if result.DisplayTitle() != "Game of Thrones" {
		t.Fatalf("unexpected display title: %q", result.DisplayTitle())
	}
	if result.DisplayDate() != "2011-04-17" {
		t.Fatalf("unexpected display date: %q", result.DisplayDate())
	}
	if ids := result.GenreIDList(); len(ids) != 1 || ids[0] != 18 {
		t.Fatalf("unexpected genre ids: %v", ids)
	}
}

func TestBestMatchSkipsPeople(t *testing.T) {
	resp := &tmdb.Response{Results: []tmdb.Result{
		{ID: 1, Name: "Some Actor", MediaType: "person"},
		{ID: 2, Title: "The Movie", MediaType: "movie"},
	}}
	match := tmdb.BestMatch(resp)
	if match == nil || match.ID != 2 {
		t.Fatalf("expected movie result, got %#v", match)
	}
}

func TestBestMatchFallsBackToFirstResult(t *testing.T) {
	resp := &tmdb.Response{Results: []tmdb.Result{
		{ID: 7, Name: "Only a Person", MediaType: "person"},
	}}
	match := tmdb.BestMatch(resp)
	if match == nil || match.ID != 7 {
		t.Fatalf("expected raw first result, got %#v", match)
	}
}

func TestBestMatchEmpty(t *testing.T) {
	if match := tmdb.BestMatch(&tmdb.Response{}); match != nil {
		t.Fatalf("expected nil for empty result set, got %#v", match)
	}
	if match := tmdb.BestMatch(nil); match != nil {
		t.Fatalf("expected nil for nil response, got %#v", match)
	}
}
