// Package catalog implements the TMDB REST client used to identify movies
// and fetch their metadata, artwork and trailer references.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"

	"pegascrape/internal/logging"
)

// DefaultBaseURL is the production TMDB API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

const (
	cacheTTL           = 30 * time.Minute
	cacheSweep         = 10 * time.Minute
	requestsPerSecond  = 40
	imageBaseURL       = "https://image.tmdb.org/t/p/original"
	youtubeWatchPrefix = "https://www.youtube.com/watch?v="
)

// Client provides access to the TMDB API. Safe for concurrent use. Read
// responses are cached per endpoint, id and language: the resolver scores the
// same movie through several search languages and the assembler walks the
// same id through the metadata language ladder, so repeated lookups must not
// repeat HTTP calls.
type Client struct {
	apiKey     string
	baseURL    string
	imageBase  string
	httpClient *http.Client
	limiter    *rateLimiter
	cache      *cache.Cache
	log        *slog.Logger
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

// WithBaseURL points the client at a different API root. Tests use this to
// target an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithImageBaseURL overrides the artwork download root.
func WithImageBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.imageBase = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a TMDB client.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		imageBase:  imageBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    newRateLimiter(requestsPerSecond, time.Second),
		cache:      cache.New(cacheTTL, cacheSweep),
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ValidateKey performs a cheap authenticated request so a bad key aborts the
// run before any file is processed.
func (c *Client) ValidateKey(ctx context.Context) error {
	var payload struct {
		Images map[string]any `json:"images"`
	}
	err := c.get(ctx, "/configuration", nil, &payload)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
		return errors.New("tmdb api key rejected")
	}
	return err
}

// SearchMovies queries the movie search endpoint. Results are cached per
// (query, year, language) for the lifetime of the run, so repeated lookups
// of files resolving to the same title cost one request.
func (c *Client) SearchMovies(ctx context.Context, query, year, language string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	cacheKey := "search|" + query + "|" + year + "|" + language
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*SearchResponse), nil
	}

	params := url.Values{}
	params.Set("query", query)
	if language != "" {
		params.Set("language", language)
	}
	if year != "" {
		params.Set("primary_release_year", year)
	}

	var payload SearchResponse
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &payload, cache.DefaultExpiration)
	return &payload, nil
}

// MovieDetails fetches the full movie payload with credits appended. The
// same (id, language) pair is requested by the resolver and again by the
// assembler's language ladder, so responses are cached.
func (c *Client) MovieDetails(ctx context.Context, movieID int64, language string) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}

	cacheKey := fmt.Sprintf("details|%d|%s", movieID, language)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*MovieDetails), nil
	}

	params := url.Values{}
	params.Set("append_to_response", "credits")
	if language != "" {
		params.Set("language", language)
	}

	var payload MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &payload, cache.DefaultExpiration)
	return &payload, nil
}

// MovieImages fetches every artwork entry for a movie across all languages;
// callers apply their own language ladder over the logo list.
func (c *Client) MovieImages(ctx context.Context, movieID int64) (*Images, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}

	var payload Images
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/images", movieID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieVideos fetches the video entries for a movie in one language.
func (c *Client) MovieVideos(ctx context.Context, movieID int64, language string) (*VideoList, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}

	cacheKey := fmt.Sprintf("videos|%d|%s", movieID, language)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*VideoList), nil
	}

	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var payload VideoList
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), params, &payload); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &payload, cache.DefaultExpiration)
	return &payload, nil
}

// MovieReleaseDates fetches the regional release entries used to derive the
// age certification.
func (c *Client) MovieReleaseDates(ctx context.Context, movieID int64) (*ReleaseDates, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}

	cacheKey := fmt.Sprintf("releases|%d", movieID)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*ReleaseDates), nil
	}

	var payload ReleaseDates
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/release_dates", movieID), nil, &payload); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &payload, cache.DefaultExpiration)
	return &payload, nil
}

// ImageURL resolves a relative artwork path to an absolute download URL.
func (c *Client) ImageURL(filePath string) string {
	return c.imageBase + filePath
}

// TrailerURL resolves a YouTube video key to a watch URL.
func TrailerURL(key string) string {
	return youtubeWatchPrefix + key
}

// get executes one rate-limited GET against the API and decodes the JSON
// body into target.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, target any) error {
	parsed, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	parsed.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	c.limiter.wait()

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	c.log.Debug("tmdb request", "endpoint", endpoint, "status", resp.StatusCode, "latency", latency)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
