package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/history"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/seerr"
	"github.com/gdelafosse/seerrbridge/internal/settings"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	path string
}

func (f *fakeResolver) ResolveMovie(ctx context.Context, title string) (string, error) {
	if f.path == "" {
		return "", apperrors.NotFoundError("movie", title)
	}
	return f.path, nil
}

func (f *fakeResolver) ResolveShow(ctx context.Context, title string) (string, error) {
	if f.path == "" {
		return "", apperrors.NotFoundError("tvshow", title)
	}
	return f.path, nil
}

// backendCalls records the requests the stub request-service saw
type backendCalls struct {
	paths  []string
	bodies []map[string]interface{}
}

func newTestServer(t *testing.T, backend http.HandlerFunc, tweaks ...func(*Options)) (*Server, func()) {
	t.Helper()

	stub := httptest.NewServer(backend)

	client := seerr.NewClient(seerr.Config{
		Service: seerr.ServiceJellyseerr,
		BaseURL: stub.URL,
		APIKey:  "test-key",
	})

	store := settings.NewMemoryStore()

	opts := Options{
		Client:   client,
		Settings: store,
		History:  history.New(store),
		Resolver: &fakeResolver{path: "/media/item.mkv"},
		Images: media.ImageBases{
			Small: "https://img.test/w500",
			Large: "https://img.test/original",
		},
		AskFourK:         true,
		DefaultMovieView: "poster",
		DefaultTVView:    "list",
		HealthCheck:      func() error { return nil },
	}
	for _, tweak := range tweaks {
		tweak(&opts)
	}

	server := NewServer(opts)

	return server, stub.Close
}

func doRequest(s *Server, method, target string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestBrowse(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/discover/trending", r.URL.Path)
		w.Write([]byte(`{
			"page": 2,
			"totalPages": 5,
			"results": [
				{"id": 603, "mediaType": "movie", "title": "The Matrix",
				 "releaseDate": "1999-03-30", "posterPath": "/p.jpg",
				 "mediaInfo": {"status": 5}},
				{"id": 604, "mediaType": "movie", "title": "The Matrix Reloaded"}
			]
		}`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/browse?mode=trending&page=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list EntryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))

	assert.Equal(t, 2, list.CurrentPage)
	assert.Equal(t, 5, list.TotalPages)
	require.NotNil(t, list.Prev)
	require.NotNil(t, list.Next)
	assert.Equal(t, 1, list.Prev.Page)
	assert.Equal(t, 3, list.Next.Page)
	assert.Equal(t, "movies", list.ContentKind)
	assert.Equal(t, "poster", list.ViewMode)

	require.Len(t, list.Entries, 2)
	available := list.Entries[0]
	assert.Equal(t, "The Matrix (1999) (Available)", available.Label)
	assert.Equal(t, "movie/603", available.Target)
	assert.Equal(t, "https://img.test/w500/p.jpg", available.Art["poster"])
	require.Len(t, available.Actions, 1)
	assert.Equal(t, "watch", string(available.Actions[0]))

	unrequested := list.Entries[1]
	assert.Equal(t, "The Matrix Reloaded", unrequested.Label)
	require.Len(t, unrequested.Actions, 1)
	assert.Equal(t, "request", string(unrequested.Actions[0]))
}

func TestBrowse_UnknownMode(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/browse?mode=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrowse_BackendFailure(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/browse?mode=trending", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGenres(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/genres/tv", r.URL.Path)
		w.Write([]byte(`[{"id": 18, "name": "Drama"}]`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/genres?media_type=tv", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list EntryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "Drama", list.Entries[0].Label)
	assert.True(t, list.Entries[0].Folder)
	assert.Equal(t, "browse?mode=genre&display_type=tv&genre_id=18", list.Entries[0].Target)
}

func TestSearch_RecordsHistory(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"id": 603, "mediaType": "movie", "title": "The Matrix"}]}`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/search?query=matrix", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(server, http.MethodGet, "/api/v1/search/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var hist HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.Equal(t, []string{"matrix"}, hist.Queries)
}

func TestSearch_EmptyResultsNotice(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/search?query=nothing", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list EntryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Entries)
	assert.Equal(t, "No results found", list.Notice)
}

func TestSearch_MissingQuery(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearSearchHistory(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})
	defer cleanup()

	doRequest(server, http.MethodGet, "/api/v1/search?query=matrix", "")

	w := doRequest(server, http.MethodDelete, "/api/v1/search/history", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(server, http.MethodGet, "/api/v1/search/history", "")
	var hist HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.Empty(t, hist.Queries)
}

func TestTVSeasons(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/tv/1399", r.URL.Path)
		w.Write([]byte(`{
			"id": 1399, "mediaType": "tv", "name": "Game of Thrones",
			"seasons": [
				{"seasonNumber": 1, "name": "Season 1", "episodeCount": 10},
				{"seasonNumber": 2, "name": "Season 2", "episodeCount": 10}
			]
		}`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/tv/1399/seasons", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Seasons []SeasonChoice `json:"seasons"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Seasons, 2)
	assert.Equal(t, "Game of Thrones - Season 1", resp.Seasons[0].Label)
	assert.Equal(t, 1, resp.Seasons[0].SeasonNumber)
}

func TestSeasonEpisodes(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/tv/1399/season/1", r.URL.Path)
		w.Write([]byte(`{
			"seasonNumber": 1, "name": "Season 1",
			"episodes": [
				{"id": 1, "episodeNumber": 1, "name": "Winter Is Coming",
				 "overview": "A deserter is found.", "stillPath": "/e1.jpg", "posterPath": "/e1.jpg"},
				{"id": 2, "episodeNumber": 2}
			]
		}`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/tv/1399/season/1/episodes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list EntryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Entries, 2)

	first := list.Entries[0]
	assert.Equal(t, "S01E01 - Winter Is Coming", first.Label)
	require.NotNil(t, first.Info)
	assert.Equal(t, "episode", first.Info.MediaType)
	assert.Equal(t, "A deserter is found.", first.Info.Overview)
	assert.Equal(t, "https://img.test/w500/e1.jpg", first.Art["poster"])

	// Nameless episodes fall back to their number
	assert.Equal(t, "S01E02 - Episode 2", list.Entries[1].Label)
}

func TestSeasonEpisodes_InvalidSeason(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/tv/1399/season/x/episodes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRequest_Movie(t *testing.T) {
	calls := &backendCalls{}
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.paths = append(calls.paths, r.Method+" "+r.URL.Path)
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		calls.bodies = append(calls.bodies, body)
		w.WriteHeader(http.StatusCreated)
	})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "movie", "media_id": 603, "is4k": true}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, calls.paths, 1)
	assert.Equal(t, "POST /api/v1/request", calls.paths[0])
	assert.Equal(t, "movie", calls.bodies[0]["mediaType"])
	assert.Equal(t, float64(603), calls.bodies[0]["mediaId"])
	assert.Equal(t, true, calls.bodies[0]["is4k"])
}

func TestCreateRequest_FourKDisabled(t *testing.T) {
	calls := &backendCalls{}
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		calls.bodies = append(calls.bodies, body)
		w.WriteHeader(http.StatusCreated)
	}, func(opts *Options) {
		opts.AskFourK = false
	})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "movie", "media_id": 603, "is4k": true}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	// With the 4K prompt disabled the body's answer is ignored
	require.Len(t, calls.bodies, 1)
	assert.Equal(t, false, calls.bodies[0]["is4k"])
}

func TestCreateRequest_AllSeasons(t *testing.T) {
	calls := &backendCalls{}
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		calls.bodies = append(calls.bodies, body)
		w.WriteHeader(http.StatusCreated)
	})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "tv", "media_id": 1399, "seasons": "all"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, calls.bodies, 1)
	assert.Equal(t, "all", calls.bodies[0]["seasons"])
}

func TestCreateRequest_SelectedSeasons(t *testing.T) {
	calls := &backendCalls{}
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{
				"id": 1399, "mediaType": "tv", "name": "Game of Thrones",
				"seasons": [{"seasonNumber": 1, "name": "Season 1"}, {"seasonNumber": 2, "name": "Season 2"}]
			}`))
			return
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		calls.bodies = append(calls.bodies, body)
		w.WriteHeader(http.StatusCreated)
	})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "tv", "media_id": 1399, "seasons": [1, 2]}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "seasons: 1, 2")

	require.Len(t, calls.bodies, 1)
	seasons := calls.bodies[0]["seasons"].([]interface{})
	assert.Len(t, seasons, 2)
}

func TestCreateRequest_EmptySeasonSelectionAborts(t *testing.T) {
	posts := 0
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{
				"id": 1399, "mediaType": "tv", "name": "Game of Thrones",
				"seasons": [{"seasonNumber": 1, "name": "Season 1"}]
			}`))
			return
		}
		posts++
		w.WriteHeader(http.StatusCreated)
	})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "tv", "media_id": 1399, "seasons": []}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, posts)
}

func TestCreateRequest_NoSeasonsFound(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1399, "mediaType": "tv", "name": "Pilot Only", "seasons": []}`))
	})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "tv", "media_id": 1399, "seasons": [1]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "No seasons found")
}

func TestCreateRequest_InvalidMediaType(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodPost, "/api/v1/request",
		`{"media_type": "music", "media_id": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestProgress(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/request":
			w.Write([]byte(`{
				"results": [{"id": 1, "media": {"tmdbId": 603, "mediaType": "movie", "status": 4}}]
			}`))
		case r.URL.Path == "/api/v1/movie/603":
			w.Write([]byte(`{"id": 603, "mediaType": "movie", "title": "The Matrix", "releaseDate": "1999-03-30"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/requests", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list EntryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "The Matrix (1999) (Partially Available)", list.Entries[0].Label)
}

func TestResolveLibrary(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/library/resolve?title=Heat&kind=movie", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/media/item.mkv", resp.Path)
}

func TestResolveLibrary_MissingTitle(t *testing.T) {
	server, cleanup := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/library/resolve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
