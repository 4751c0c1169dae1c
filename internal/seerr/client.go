package seerr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/logger"
	"github.com/gdelafosse/seerrbridge/internal/media"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
	requestTake    = 25
)

// Service selects the authentication mode of the request-service
type Service string

const (
	ServiceJellyseerr Service = "jellyseerr"
	ServiceOverseerr  Service = "overseerr"
)

// Client handles request-service (Jellyseerr/Overseerr) API interactions.
// Calls are single-shot: a transport or service failure surfaces
// immediately to the caller, there is no retry and no caching.
type Client struct {
	baseURL    string
	service    Service
	apiKey     string
	username   string
	password   string
	httpClient *http.Client
	logger     *logger.Logger

	mu       sync.Mutex
	loggedIn bool
}

// Config holds request-service client configuration
type Config struct {
	Service  Service
	BaseURL  string
	APIKey   string
	Username string
	Password string
	Timeout  time.Duration
}

// NewClient creates a new request-service API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Service == "" {
		cfg.Service = ServiceJellyseerr
	}

	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL:  cfg.BaseURL,
		service:  cfg.Service,
		apiKey:   cfg.APIKey,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		logger: logger.AppLogger(),
	}
}

// Trending fetches the trending discover listing
func (c *Client) Trending(ctx context.Context, page int) (*ListPage, error) {
	return c.listPage(ctx, "/discover/trending", pageParams(page))
}

// PopularMovies fetches popular movies
func (c *Client) PopularMovies(ctx context.Context, page int) (*ListPage, error) {
	params := pageParams(page)
	params.Set("sortBy", "popularity.desc")
	return c.listPage(ctx, "/discover/movies", params)
}

// PopularTV fetches popular TV shows
func (c *Client) PopularTV(ctx context.Context, page int) (*ListPage, error) {
	params := pageParams(page)
	params.Set("sortBy", "popularity.desc")
	return c.listPage(ctx, "/discover/tv", params)
}

// UpcomingMovies fetches upcoming movies
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*ListPage, error) {
	return c.listPage(ctx, "/discover/movies/upcoming", pageParams(page))
}

// UpcomingTV fetches upcoming TV shows
func (c *Client) UpcomingTV(ctx context.Context, page int) (*ListPage, error) {
	return c.listPage(ctx, "/discover/tv/upcoming", pageParams(page))
}

// DiscoverByGenre fetches the genre-filtered discover listing.
// displayType is "movies" or "tv" as the discover endpoint expects.
func (c *Client) DiscoverByGenre(ctx context.Context, displayType string, genreID, page int) (*ListPage, error) {
	endpoint := fmt.Sprintf("/discover/%s/genre/%d", displayType, genreID)
	return c.listPage(ctx, endpoint, pageParams(page))
}

// Genres fetches the genre list for a media type ("movie" or "tv")
func (c *Client) Genres(ctx context.Context, mediaType string) ([]Genre, error) {
	var genres []Genre
	if err := c.doRequest(ctx, http.MethodGet, "/genres/"+mediaType, nil, nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Search performs a free-text search across movies and TV shows
func (c *Client) Search(ctx context.Context, query string) (*ListPage, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.listPage(ctx, "/search", params)
}

// MovieDetails fetches full details for a movie
func (c *Client) MovieDetails(ctx context.Context, id int) (*media.MediaRecord, error) {
	return c.details(ctx, media.TypeMovie, id)
}

// TVDetails fetches full details for a TV show
func (c *Client) TVDetails(ctx context.Context, id int) (*media.MediaRecord, error) {
	return c.details(ctx, media.TypeTV, id)
}

// Details fetches full details for the given media type and id
func (c *Client) Details(ctx context.Context, mediaType string, id int) (*media.MediaRecord, error) {
	return c.details(ctx, mediaType, id)
}

func (c *Client) details(ctx context.Context, mediaType string, id int) (*media.MediaRecord, error) {
	var rec media.MediaRecord
	endpoint := fmt.Sprintf("/%s/%d", mediaType, id)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil, &rec); err != nil {
		return nil, err
	}
	if rec.MediaType == "" {
		rec.MediaType = mediaType
	}
	return &rec, nil
}

// Season fetches a single season of a TV show
func (c *Client) Season(ctx context.Context, tvID, seasonNumber int) (*SeasonDetails, error) {
	var season SeasonDetails
	endpoint := fmt.Sprintf("/tv/%d/season/%d", tvID, seasonNumber)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil, &season); err != nil {
		return nil, err
	}
	return &season, nil
}

// Requests fetches the request-progress listing, newest first
func (c *Client) Requests(ctx context.Context, page int) (*RequestPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("sort", "added")
	params.Set("filter", "all")
	params.Set("sortDirection", "desc")
	params.Set("take", strconv.Itoa(requestTake))
	params.Set("skip", strconv.Itoa((page-1)*requestTake))

	var result RequestPage
	if err := c.doRequest(ctx, http.MethodGet, "/request", params, nil, &result); err != nil {
		return nil, err
	}
	if result.Page < 1 {
		result.Page = page
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return &result, nil
}

// CreateRequest submits a media request. The response body carries no
// contract beyond the status code.
func (c *Client) CreateRequest(ctx context.Context, req MediaRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/request", nil, req, nil)
}

func (c *Client) listPage(ctx context.Context, endpoint string, params url.Values) (*ListPage, error) {
	var result ListPage
	if err := c.doRequest(ctx, http.MethodGet, endpoint, params, nil, &result); err != nil {
		return nil, err
	}
	if result.Page < 1 {
		result.Page = 1
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return &result, nil
}

// ensureAuthenticated performs the session login once when no API key is
// configured. With an API key every request is self-authenticating.
func (c *Client) ensureAuthenticated(ctx context.Context) error {
	if c.apiKey != "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loggedIn {
		return nil
	}

	endpoint := "/auth/jellyfin"
	payload := map[string]string{
		"username": c.username,
		"password": c.password,
	}
	if c.service == ServiceOverseerr {
		endpoint = "/auth/local"
		payload = map[string]string{
			"email":    c.username,
			"password": c.password,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to marshal login payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ExternalServiceError(string(c.service), "login request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.New(apperrors.CodeUnauthorized,
			fmt.Sprintf("login failed (status %d): %s", resp.StatusCode, string(respBody)))
	}

	c.loggedIn = true
	return nil
}

// doRequest performs a single HTTP request against the API. Non-2xx
// responses and transport failures return an external-service error;
// there is no retry.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body, result interface{}) error {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return err
	}

	requestURL := c.baseURL + apiPrefix + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(data)
	}

	c.logger.WithFields(map[string]interface{}{
		"method":   method,
		"endpoint": endpoint,
	}).Debug("request-service call")

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ExternalServiceError(string(c.service), "request failed", err).
			WithContext("endpoint", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.New(apperrors.CodeUnauthorized,
			fmt.Sprintf("request rejected (status %d): %s", resp.StatusCode, string(respBody)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.New(apperrors.CodeExternalService,
			fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(respBody))).
			WithContext("endpoint", endpoint).
			WithContext("status", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return apperrors.ParseError("failed to decode response", err).
				WithContext("endpoint", endpoint)
		}
	}

	return nil
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}
