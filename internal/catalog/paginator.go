package catalog

import (
	"context"
	"fmt"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/seerr"
)

// Mode identifies a browsable catalog listing
type Mode string

const (
	ModeTrending       Mode = "trending"
	ModePopularMovies  Mode = "popular_movies"
	ModePopularTV      Mode = "popular_tv"
	ModeUpcomingMovies Mode = "upcoming_movies"
	ModeUpcomingTV     Mode = "upcoming_tv"
	ModeGenre          Mode = "genre"
	ModeSearch         Mode = "search"
)

// ParseMode validates a mode string coming in from the API surface
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTrending, ModePopularMovies, ModePopularTV,
		ModeUpcomingMovies, ModeUpcomingTV, ModeGenre, ModeSearch:
		return Mode(s), nil
	default:
		return "", apperrors.InvalidInputError(fmt.Sprintf("unknown browse mode %q", s))
	}
}

// Query describes one page of a catalog listing together with the
// filters that produced it. Page is 1-based.
type Query struct {
	Mode        Mode   `json:"mode"`
	Page        int    `json:"page"`
	GenreID     int    `json:"genre_id,omitempty"`
	DisplayType string `json:"display_type,omitempty"`
	Search      string `json:"search,omitempty"`
}

// Page is a fetched catalog page. Query echoes the request so the
// caller can derive the neighbouring pages.
type Page struct {
	Items       []media.MediaRecord
	CurrentPage int
	TotalPages  int
	Query       Query
}

// HasPrev reports whether a previous page exists
func (p *Page) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a next page exists
func (p *Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// PrevQuery returns the query for the previous page, preserving every
// filter, or nil when the current page is the first.
func (p *Page) PrevQuery() *Query {
	if !p.HasPrev() {
		return nil
	}
	q := p.Query
	q.Page = p.CurrentPage - 1
	return &q
}

// NextQuery returns the query for the next page, preserving every
// filter, or nil when the current page is the last.
func (p *Page) NextQuery() *Query {
	if !p.HasNext() {
		return nil
	}
	q := p.Query
	q.Page = p.CurrentPage + 1
	return &q
}

// ContentKind reports which library section the listing belongs to,
// "movies" or "tvshows". Mixed listings default to movies.
func (q Query) ContentKind() string {
	switch q.Mode {
	case ModePopularTV, ModeUpcomingTV:
		return "tvshows"
	case ModeGenre:
		if q.DisplayType == "tv" {
			return "tvshows"
		}
		return "movies"
	default:
		return "movies"
	}
}

// Lister is the subset of the request-service client the paginator needs
type Lister interface {
	Trending(ctx context.Context, page int) (*seerr.ListPage, error)
	PopularMovies(ctx context.Context, page int) (*seerr.ListPage, error)
	PopularTV(ctx context.Context, page int) (*seerr.ListPage, error)
	UpcomingMovies(ctx context.Context, page int) (*seerr.ListPage, error)
	UpcomingTV(ctx context.Context, page int) (*seerr.ListPage, error)
	DiscoverByGenre(ctx context.Context, displayType string, genreID, page int) (*seerr.ListPage, error)
	Search(ctx context.Context, query string) (*seerr.ListPage, error)
}

// Paginator fetches catalog pages and carries the filter context
// through page turns
type Paginator struct {
	client Lister
}

// NewPaginator creates a paginator over the given listing client
func NewPaginator(client Lister) *Paginator {
	return &Paginator{client: client}
}

// FetchPage resolves a query to one page of results. The dispatch is
// exhaustive over the known modes; anything else is rejected as
// invalid input.
func (p *Paginator) FetchPage(ctx context.Context, q Query) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	var (
		list *seerr.ListPage
		err  error
	)

	switch q.Mode {
	case ModeTrending:
		list, err = p.client.Trending(ctx, q.Page)
	case ModePopularMovies:
		list, err = p.client.PopularMovies(ctx, q.Page)
	case ModePopularTV:
		list, err = p.client.PopularTV(ctx, q.Page)
	case ModeUpcomingMovies:
		list, err = p.client.UpcomingMovies(ctx, q.Page)
	case ModeUpcomingTV:
		list, err = p.client.UpcomingTV(ctx, q.Page)
	case ModeGenre:
		if q.GenreID == 0 {
			return nil, apperrors.InvalidInputError("genre browsing requires a genre_id")
		}
		displayType := q.DisplayType
		if displayType == "" {
			displayType = "movies"
		}
		q.DisplayType = displayType
		list, err = p.client.DiscoverByGenre(ctx, displayType, q.GenreID, q.Page)
	case ModeSearch:
		if q.Search == "" {
			return nil, apperrors.InvalidInputError("search browsing requires a query")
		}
		list, err = p.client.Search(ctx, q.Search)
	default:
		return nil, apperrors.InvalidInputError(fmt.Sprintf("unknown browse mode %q", q.Mode))
	}
	if err != nil {
		return nil, err
	}

	current := list.Page
	if current < 1 {
		current = q.Page
	}
	total := list.TotalPages
	if total < 1 {
		total = 1
	}
	q.Page = current

	return &Page{
		Items:       list.Results,
		CurrentPage: current,
		TotalPages:  total,
		Query:       q,
	}, nil
}
