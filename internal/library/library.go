package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/logger"
)

const defaultTimeout = 10 * time.Second

// Resolver locates already-owned media in the host library and
// returns a playable path. Absence is a not-found error, not a
// transport failure.
type Resolver interface {
	ResolveMovie(ctx context.Context, title string) (string, error)
	ResolveShow(ctx context.Context, title string) (string, error)
}

// Config holds host library endpoint settings
type Config struct {
	RPCURL   string
	Username string
	Password string
	Timeout  time.Duration
}

// JSONRPCClient resolves library items through the host media
// center's JSON-RPC video-library API
type JSONRPCClient struct {
	rpcURL     string
	username   string
	password   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewJSONRPCClient creates a library resolver for the given endpoint
func NewJSONRPCClient(cfg Config) *JSONRPCClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &JSONRPCClient{
		rpcURL:     cfg.RPCURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.AppLogger(),
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type titleFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type movieItem struct {
	MovieID int    `json:"movieid"`
	Label   string `json:"label"`
	File    string `json:"file"`
}

type showItem struct {
	TVShowID int    `json:"tvshowid"`
	Label    string `json:"label"`
}

type episodeItem struct {
	EpisodeID int    `json:"episodeid"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	PlayCount int    `json:"playcount"`
	File      string `json:"file"`
}

// ResolveMovie finds a movie by exact title and returns its file path
func (c *JSONRPCClient) ResolveMovie(ctx context.Context, title string) (string, error) {
	var result struct {
		Movies []movieItem `json:"movies"`
	}
	params := map[string]interface{}{
		"filter":     titleFilter{Field: "title", Operator: "is", Value: title},
		"properties": []string{"file"},
	}
	if err := c.call(ctx, "VideoLibrary.GetMovies", params, &result); err != nil {
		return "", err
	}

	if len(result.Movies) == 0 || result.Movies[0].File == "" {
		return "", apperrors.NotFoundError("movie", title)
	}
	return result.Movies[0].File, nil
}

// ResolveShow finds a show by exact title and returns the file path
// of its first unwatched episode, falling back to the first episode
// in airing order.
func (c *JSONRPCClient) ResolveShow(ctx context.Context, title string) (string, error) {
	var shows struct {
		TVShows []showItem `json:"tvshows"`
	}
	params := map[string]interface{}{
		"filter": titleFilter{Field: "title", Operator: "is", Value: title},
	}
	if err := c.call(ctx, "VideoLibrary.GetTVShows", params, &shows); err != nil {
		return "", err
	}
	if len(shows.TVShows) == 0 {
		return "", apperrors.NotFoundError("tvshow", title)
	}

	var episodes struct {
		Episodes []episodeItem `json:"episodes"`
	}
	episodeParams := map[string]interface{}{
		"tvshowid":   shows.TVShows[0].TVShowID,
		"properties": []string{"file", "playcount", "season", "episode"},
		"sort":       map[string]string{"method": "episode", "order": "ascending"},
	}
	if err := c.call(ctx, "VideoLibrary.GetEpisodes", episodeParams, &episodes); err != nil {
		return "", err
	}
	if len(episodes.Episodes) == 0 {
		return "", apperrors.NotFoundError("episode", title)
	}

	for _, ep := range episodes.Episodes {
		if ep.PlayCount == 0 && ep.File != "" {
			return ep.File, nil
		}
	}
	if episodes.Episodes[0].File == "" {
		return "", apperrors.NotFoundError("episode", title)
	}
	return episodes.Episodes[0].File, nil
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to marshal RPC request")
	}

	c.logger.WithField("method", method).Debug("library RPC call")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to build RPC request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ExternalServiceError("library", "RPC request failed", err).
			WithContext("method", method)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.New(apperrors.CodeExternalService,
			fmt.Sprintf("library RPC error (status %d): %s", resp.StatusCode, string(respBody))).
			WithContext("method", method)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return apperrors.ParseError("failed to decode RPC response", err).
			WithContext("method", method)
	}
	if rpcResp.Error != nil {
		return apperrors.New(apperrors.CodeExternalService,
			fmt.Sprintf("library RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)).
			WithContext("method", method)
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return apperrors.ParseError("failed to decode RPC result", err).
				WithContext("method", method)
		}
	}
	return nil
}
