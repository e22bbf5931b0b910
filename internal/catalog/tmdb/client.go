package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result represents a single TMDB search match. Movie results carry
// title/release_date, TV results name/first_air_date; the Display helpers
// paper over the difference.
type Result struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	OriginalTitle    string  `json:"original_title"`
	OriginalName     string  `json:"original_name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	MediaType        string  `json:"media_type"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int64 `json:"genre_ids"`
	Genres           []Genre `json:"genres"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
}

// Genre is the expanded genre object returned by the detail endpoints.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (r Result) DisplayTitle() string {
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}
	return r.Name
}

// DisplayOriginalTitle returns the original-language title for either media type.
func (r Result) DisplayOriginalTitle() string {
	if strings.TrimSpace(r.OriginalTitle) != "" {
		return r.OriginalTitle
	}
	return r.OriginalName
}

// DisplayDate returns the release date or first air date, whichever is set.
func (r Result) DisplayDate() string {
	if strings.TrimSpace(r.ReleaseDate) != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// GenreIDList returns genre codes from whichever representation the endpoint
// supplied (flat ids on search results, expanded objects on details).
func (r Result) GenreIDList() []int64 {
	if len(r.GenreIDs) > 0 {
		return r.GenreIDs
	}
	if len(r.Genres) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(r.Genres))
	for _, g := range r.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// Searcher defines the TMDB operations used by enrichment and fix-match.
type Searcher interface {
	SearchMulti(ctx context.Context, query string) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*Result, error)
	GetTVDetails(ctx context.Context, showID int64) (*Result, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	language = strings.TrimSpace(language)
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMulti performs a TMDB multi search across movies, TV shows, and people.
func (c *Client) SearchMulti(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search/multi")
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	var payload Response
	if err := c.getJSON(ctx, endpoint.String(), "tmdb multi search", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Result, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	endpoint, err := c.detailURL(fmt.Sprintf("/movie/%d", movieID))
	if err != nil {
		return nil, err
	}

	var payload Result
	if err := c.getJSON(ctx, endpoint, "tmdb movie details", &payload); err != nil {
		return nil, err
	}
	payload.MediaType = "movie"
	return &payload, nil
}

// GetTVDetails fetches TV show details by TMDB ID.
func (c *Client) GetTVDetails(ctx context.Context, showID int64) (*Result, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	endpoint, err := c.detailURL(fmt.Sprintf("/tv/%d", showID))
	if err != nil {
		return nil, err
	}

	var payload Result
	if err := c.getJSON(ctx, endpoint, "tmdb tv details", &payload); err != nil {
		return nil, err
	}
	payload.MediaType = "tv"
	return &payload, nil
}

func (c *Client) detailURL(path string) (string, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, operation string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d (latency=%v)", operation, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// BestMatch applies the candidate selection policy to a search response:
// prefer the first result tagged movie or tv (person and other entity kinds
// are skipped); fall back to the raw first result; return nil when the
// result set is empty.
func BestMatch(resp *Response) *Result {
	if resp == nil || len(resp.Results) == 0 {
		return nil
	}
	for i := range resp.Results {
		switch resp.Results[i].MediaType {
		case "movie", "tv":
			result := resp.Results[i]
			return &result
		}
	}
	result := resp.Results[0]
	return &result
}
