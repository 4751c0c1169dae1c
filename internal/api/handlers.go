package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gdelafosse/seerrbridge/internal/catalog"
	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/models"
	"github.com/gdelafosse/seerrbridge/internal/workflow"
)

func (s *Server) healthCheck(c *gin.Context) {
	if s.opts.HealthCheck != nil {
		if err := s.opts.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (s *Server) browse(c *gin.Context) {
	mode, err := catalog.ParseMode(c.DefaultQuery("mode", string(catalog.ModeTrending)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	query := catalog.Query{
		Mode:        mode,
		Page:        intQuery(c, "page", 1),
		GenreID:     intQuery(c, "genre_id", 0),
		DisplayType: c.Query("display_type"),
		Search:      c.Query("search"),
	}

	page, err := s.paginator.FetchPage(c.Request.Context(), query)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.entryList(page, ""))
}

func (s *Server) genres(c *gin.Context) {
	mediaType := c.DefaultQuery("media_type", "movie")
	if mediaType != "movie" && mediaType != "tv" {
		s.respondError(c, apperrors.InvalidInputError("media_type must be movie or tv"))
		return
	}

	genres, err := s.client.Genres(c.Request.Context(), mediaType)
	if err != nil {
		s.respondError(c, err)
		return
	}

	displayType := "movies"
	if mediaType == "tv" {
		displayType = "tv"
	}

	entries := make([]Entry, 0, len(genres))
	for _, g := range genres {
		entries = append(entries, Entry{
			Label:  g.Name,
			Target: fmt.Sprintf("browse?mode=genre&display_type=%s&genre_id=%d", displayType, g.ID),
			Folder: true,
		})
	}

	c.JSON(http.StatusOK, EntryList{
		Entries:     entries,
		CurrentPage: 1,
		TotalPages:  1,
	})
}

func (s *Server) search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		s.respondError(c, apperrors.InvalidInputError("query is required"))
		return
	}

	if err := s.history.Record(query); err != nil {
		// Search still works when history cannot be written
		s.logger.WithField("error", err.Error()).Warn("failed to record search query")
	}

	page, err := s.paginator.FetchPage(c.Request.Context(), catalog.Query{
		Mode:   catalog.ModeSearch,
		Page:   1,
		Search: query,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	notice := ""
	if len(page.Items) == 0 {
		notice = "No results found"
	}

	c.JSON(http.StatusOK, s.entryList(page, notice))
}

func (s *Server) searchHistory(c *gin.Context) {
	queries, err := s.history.List()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Queries: queries})
}

func (s *Server) clearSearchHistory(c *gin.Context) {
	if err := s.history.Clear(); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) tvSeasons(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInputError("id must be an integer"))
		return
	}

	show, err := s.client.TVDetails(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	title := show.CanonicalTitle()
	choices := make([]SeasonChoice, 0, len(show.Seasons))
	for _, season := range show.Seasons {
		choices = append(choices, SeasonChoice{
			SeasonNumber: season.SeasonNumber,
			Label:        fmt.Sprintf("%s - %s", title, season.Name),
			EpisodeCount: season.EpisodeCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"seasons": choices})
}

func (s *Server) seasonEpisodes(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInputError("id must be an integer"))
		return
	}
	num, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		s.respondError(c, apperrors.InvalidInputError("season number must be an integer"))
		return
	}

	season, err := s.client.Season(c.Request.Context(), id, num)
	if err != nil {
		s.respondError(c, err)
		return
	}

	entries := make([]Entry, 0, len(season.Episodes))
	for i := range season.Episodes {
		ep := &season.Episodes[i]
		if ep.MediaType == "" {
			ep.MediaType = media.TypeEpisode
		}
		title := ep.CanonicalTitle()
		if title == "" {
			title = fmt.Sprintf("Episode %d", ep.EpisodeNumber)
		}

		info := media.Normalize(ep)
		entries = append(entries, Entry{
			Label: fmt.Sprintf("S%02dE%02d - %s", num, ep.EpisodeNumber, title),
			Info:  &info,
			Art:   media.ArtMap(ep, s.opts.Images),
		})
	}

	c.JSON(http.StatusOK, EntryList{
		Entries:     entries,
		CurrentPage: 1,
		TotalPages:  1,
	})
}

func (s *Server) createRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, apperrors.InvalidInputError("invalid request body: "+err.Error()))
		return
	}
	if body.MediaType != media.TypeMovie && body.MediaType != media.TypeTV {
		s.respondError(c, apperrors.InvalidInputError("media_type must be movie or tv"))
		return
	}

	seasons, all, err := parseSeasons(body.Seasons)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// The host UI already asked the user; the body carries the answers.
	// The engine still owns the 4K gate, so a disabled prompt means a
	// standard-quality request whatever the body claims.
	prompter := &bodyPrompter{is4K: body.Is4K, seasons: seasons}
	notifier := &captureNotifier{}
	engine := workflow.NewEngine(s.client, prompter, notifier, s.opts.AskFourK)

	ctx := c.Request.Context()
	switch {
	case body.MediaType == media.TypeMovie:
		err = engine.RequestMovie(ctx, body.MediaID)
	case all:
		err = engine.RequestAllSeasons(ctx, body.MediaID)
	default:
		err = engine.RequestSeasons(ctx, body.MediaID)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	if notifier.success != "" {
		c.JSON(http.StatusAccepted, gin.H{"message": notifier.success})
		return
	}
	if notifier.failure != "" {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "request rejected",
			Message: notifier.failure,
		})
		return
	}
	// Nothing submitted, nothing to report
	c.Status(http.StatusNoContent)
}

func (s *Server) requestProgress(c *gin.Context) {
	page, err := s.engine.RequestProgress(c.Request.Context(), intQuery(c, "page", 1))
	if err != nil {
		s.respondError(c, err)
		return
	}

	entries := make([]Entry, 0, len(page.Items))
	for _, item := range page.Items {
		entries = append(entries, s.entry(item.Record, item.Availability))
	}

	c.JSON(http.StatusOK, EntryList{
		Entries:     entries,
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages,
	})
}

func (s *Server) resolveLibrary(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		s.respondError(c, apperrors.InvalidInputError("title is required"))
		return
	}
	if s.resolver == nil {
		s.respondError(c, apperrors.NotFoundError("library item", title))
		return
	}

	var (
		path string
		err  error
	)
	switch c.DefaultQuery("kind", "movie") {
	case "movie":
		path, err = s.resolver.ResolveMovie(c.Request.Context(), title)
	case "tv", "tvshow":
		path, err = s.resolver.ResolveShow(c.Request.Context(), title)
	default:
		err = apperrors.InvalidInputError("kind must be movie or tv")
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{Path: path})
}

// entry builds the renderable form of one media record
func (s *Server) entry(rec *media.MediaRecord, availability workflow.Availability) Entry {
	label := media.Label(rec)
	if decoration := availability.Decoration(); decoration != "" {
		label = label + " " + decoration
	}

	info := media.Normalize(rec)

	return Entry{
		Label:   label,
		Target:  fmt.Sprintf("%s/%d", rec.Kind(), rec.ID),
		Info:    &info,
		Art:     media.ArtMap(rec, s.opts.Images),
		Actions: availability.Actions(),
	}
}

func (s *Server) entryList(page *catalog.Page, notice string) EntryList {
	entries := make([]Entry, 0, len(page.Items))
	for i := range page.Items {
		rec := &page.Items[i]
		entries = append(entries, s.entry(rec, workflow.Classify(rec.StatusCode())))
	}

	kind := page.Query.ContentKind()

	return EntryList{
		Entries:     entries,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		Prev:        page.PrevQuery(),
		Next:        page.NextQuery(),
		ContentKind: kind,
		ViewMode:    s.viewMode(kind),
		Notice:      notice,
	}
}

// viewMode resolves the stored presentation preference for a content
// kind, falling back to the configured default
func (s *Server) viewMode(kind string) string {
	key := models.KeyMovieViewMode
	fallback := s.opts.DefaultMovieView
	if kind == "tvshows" {
		key = models.KeyTVShowViewMode
		fallback = s.opts.DefaultTVView
	}

	value, err := s.settings.Get(key)
	if err != nil {
		return fallback
	}
	return value
}

func (s *Server) respondError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	status := http.StatusInternalServerError
	switch apperrors.GetErrorCode(err) {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeCancelled:
		c.Status(http.StatusNoContent)
		return
	case apperrors.CodeExternalService, apperrors.CodeUnauthorized:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithField("request_id", requestID).Error("request failed", err)
	}

	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// parseSeasons interprets the request body's seasons field: absent,
// the string "all", or a list of season numbers
func parseSeasons(raw interface{}) ([]int, bool, error) {
	switch v := raw.(type) {
	case nil:
		return nil, true, nil
	case string:
		if v == "all" {
			return nil, true, nil
		}
		return nil, false, apperrors.InvalidInputError("seasons must be \"all\" or a list of numbers")
	case []interface{}:
		seasons := make([]int, 0, len(v))
		for _, item := range v {
			num, ok := item.(float64)
			if !ok {
				return nil, false, apperrors.InvalidInputError("seasons must contain only numbers")
			}
			seasons = append(seasons, int(num))
		}
		return seasons, false, nil
	default:
		return nil, false, apperrors.InvalidInputError("seasons must be \"all\" or a list of numbers")
	}
}

// bodyPrompter answers workflow prompts from the request body; the
// host UI already asked the user
type bodyPrompter struct {
	is4K    bool
	seasons []int
}

func (p *bodyPrompter) ConfirmFourK(ctx context.Context) (bool, error) {
	return p.is4K, nil
}

func (p *bodyPrompter) SelectSeasons(ctx context.Context, show string, seasons []media.Season) ([]int, error) {
	return p.seasons, nil
}

// captureNotifier collects workflow outcomes for the HTTP response
type captureNotifier struct {
	success string
	failure string
}

func (n *captureNotifier) Success(msg string) { n.success = msg }
func (n *captureNotifier) Failure(msg string) { n.failure = msg }

type noopPrompter struct{}

func (noopPrompter) ConfirmFourK(ctx context.Context) (bool, error) { return false, nil }
func (noopPrompter) SelectSeasons(ctx context.Context, show string, seasons []media.Season) ([]int, error) {
	return nil, nil
}

type noopNotifier struct{}

func (noopNotifier) Success(msg string) {}
func (noopNotifier) Failure(msg string) {}
