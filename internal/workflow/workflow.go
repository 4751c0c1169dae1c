package workflow

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/logger"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/seerr"
)

// Prompter asks the user the questions a request may need. A
// cancelled prompt is reported as a CodeCancelled error and aborts
// the workflow silently.
type Prompter interface {
	ConfirmFourK(ctx context.Context) (bool, error)
	SelectSeasons(ctx context.Context, show string, seasons []media.Season) ([]int, error)
}

// Notifier delivers the outcome of a submitted request to the user
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Requester is the subset of the request-service client the engine needs
type Requester interface {
	TVDetails(ctx context.Context, id int) (*media.MediaRecord, error)
	Details(ctx context.Context, mediaType string, id int) (*media.MediaRecord, error)
	Requests(ctx context.Context, page int) (*seerr.RequestPage, error)
	CreateRequest(ctx context.Context, req seerr.MediaRequest) error
}

// Engine drives the request workflows: gather input through the
// prompter, submit exactly one request, report through the notifier.
type Engine struct {
	client   Requester
	prompter Prompter
	notifier Notifier
	askFourK bool
	logger   *logger.Logger
}

// NewEngine creates a request workflow engine. When askFourK is false
// the 4K prompt is skipped and requests are submitted in standard
// quality.
func NewEngine(client Requester, prompter Prompter, notifier Notifier, askFourK bool) *Engine {
	return &Engine{
		client:   client,
		prompter: prompter,
		notifier: notifier,
		askFourK: askFourK,
		logger:   logger.AppLogger(),
	}
}

// RequestMovie submits a request for a movie
func (e *Engine) RequestMovie(ctx context.Context, id int) error {
	is4K, err := e.confirmFourK(ctx)
	if err != nil {
		return e.abortOrFail(err)
	}

	return e.submit(ctx, seerr.MediaRequest{
		MediaType: media.TypeMovie,
		MediaID:   id,
		Is4K:      is4K,
	}, "Request sent")
}

// RequestAllSeasons submits a request covering every season of a show
func (e *Engine) RequestAllSeasons(ctx context.Context, id int) error {
	is4K, err := e.confirmFourK(ctx)
	if err != nil {
		return e.abortOrFail(err)
	}

	return e.submit(ctx, seerr.MediaRequest{
		MediaType: media.TypeTV,
		MediaID:   id,
		Is4K:      is4K,
		Seasons:   "all",
	}, "Request sent")
}

// RequestSeasons prompts for a season selection and submits a request
// for the chosen seasons. An empty or cancelled selection aborts
// without touching the request service.
func (e *Engine) RequestSeasons(ctx context.Context, id int) error {
	show, err := e.client.TVDetails(ctx, id)
	if err != nil {
		e.notifier.Failure(fmt.Sprintf("Failed to load show: %v", err))
		return err
	}

	if len(show.Seasons) == 0 {
		e.notifier.Failure("No seasons found")
		return nil
	}

	selected, err := e.prompter.SelectSeasons(ctx, show.CanonicalTitle(), show.Seasons)
	if err != nil {
		return e.abortOrFail(err)
	}
	if len(selected) == 0 {
		return nil
	}

	is4K, err := e.confirmFourK(ctx)
	if err != nil {
		return e.abortOrFail(err)
	}

	return e.submit(ctx, seerr.MediaRequest{
		MediaType: media.TypeTV,
		MediaID:   id,
		Is4K:      is4K,
		Seasons:   selected,
	}, fmt.Sprintf("Request sent for seasons: %s", joinInts(selected)))
}

// ProgressItem is one resolved entry of the request-progress listing
type ProgressItem struct {
	Record       *media.MediaRecord
	Availability Availability
}

// ProgressPage is a page of resolved request-progress entries
type ProgressPage struct {
	Items      []ProgressItem
	Page       int
	TotalPages int
}

// RequestProgress fetches the request listing and resolves each item
// to full details. Items whose details cannot be loaded are skipped;
// a listing failure propagates.
func (e *Engine) RequestProgress(ctx context.Context, page int) (*ProgressPage, error) {
	listing, err := e.client.Requests(ctx, page)
	if err != nil {
		return nil, err
	}

	result := &ProgressPage{
		Page:       listing.Page,
		TotalPages: listing.TotalPages,
	}
	for _, item := range listing.Results {
		rec, err := e.client.Details(ctx, item.Media.MediaType, item.Media.TmdbID)
		if err != nil {
			e.logger.WithFields(map[string]interface{}{
				"tmdb_id":    item.Media.TmdbID,
				"media_type": item.Media.MediaType,
				"error":      err.Error(),
			}).Warn("skipping request entry, details unavailable")
			continue
		}
		result.Items = append(result.Items, ProgressItem{
			Record:       rec,
			Availability: Classify(int(item.Media.Status)),
		})
	}
	return result, nil
}

func (e *Engine) confirmFourK(ctx context.Context) (bool, error) {
	if !e.askFourK {
		return false, nil
	}
	return e.prompter.ConfirmFourK(ctx)
}

func (e *Engine) submit(ctx context.Context, req seerr.MediaRequest, successMsg string) error {
	if err := e.client.CreateRequest(ctx, req); err != nil {
		e.notifier.Failure(fmt.Sprintf("Request failed: %v", err))
		return err
	}
	e.notifier.Success(successMsg)
	return nil
}

// abortOrFail swallows cancellations and notifies on real failures
func (e *Engine) abortOrFail(err error) error {
	if apperrors.IsCancelled(err) {
		return nil
	}
	e.notifier.Failure(fmt.Sprintf("Request aborted: %v", err))
	return err
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
