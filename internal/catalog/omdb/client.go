package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// notAvailable is the sentinel OMDb uses for missing field values.
const notAvailable = "N/A"

// rottenTomatoesSource labels the Rotten Tomatoes element in the Ratings list.
const rottenTomatoesSource = "Rotten Tomatoes"

// Ratings holds the cross-referenced scores for one title. Pointer fields are
// nil when the catalog had no value for them.
type Ratings struct {
	IMDBRating *float64
	IMDBID     string
	RTRating   *int
	Metacritic *int
}

// response models the OMDb by-title payload. Every numeric field arrives as
// free text, with "N/A" standing in for absent values.
type response struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Metascore  string `json:"Metascore"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// Client provides access to the OMDb API for ratings lookups.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

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

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// LookupRatings queries OMDb by exact title, disambiguated by release year
// when known. It returns nil (without error) when OMDb reports the title as
// not found.
func (c *Client) LookupRatings(ctx context.Context, title, year string) (*Ratings, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	if year = strings.TrimSpace(year); year != "" {
		params.Set("y", year)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}

	if !strings.EqualFold(payload.Response, "True") {
		// OMDb signals "not found" in-band rather than via status code.
		return nil, nil
	}

	ratings := &Ratings{
		IMDBRating: parseFloatField(payload.ImdbRating),
		Metacritic: parseIntField(payload.Metascore),
	}
	if payload.ImdbID != "" && payload.ImdbID != notAvailable {
		ratings.IMDBID = payload.ImdbID
	}
	for _, source := range payload.Ratings {
		if strings.EqualFold(source.Source, rottenTomatoesSource) {
			ratings.RTRating = parsePercentField(source.Value)
			break
		}
	}
	return ratings, nil
}

func parseFloatField(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == notAvailable {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseIntField(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" || value == notAvailable {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func parsePercentField(value string) *int {
	value = strings.TrimSuffix(strings.TrimSpace(value), "%")
	if value == "" || value == notAvailable {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 || parsed > 100 {
		return nil
	}
	return &parsed
}
