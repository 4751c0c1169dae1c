package seerr

import "github.com/gdelafosse/seerrbridge/internal/media"

// ListPage is the common shape of the API's paged listing endpoints
type ListPage struct {
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Results    []media.MediaRecord `json:"results"`
}

// Genre represents a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SeasonDetails is the response of the season endpoint
type SeasonDetails struct {
	SeasonNumber int                 `json:"seasonNumber"`
	Name         string              `json:"name"`
	Episodes     []media.MediaRecord `json:"episodes"`
}

// RequestItem is one entry of the request-progress listing
type RequestItem struct {
	ID    int          `json:"id"`
	Media RequestMedia `json:"media"`
}

// RequestMedia carries the media identity and status of a tracked request
type RequestMedia struct {
	TmdbID    int           `json:"tmdbId"`
	MediaType string        `json:"mediaType"`
	Status    media.FlexInt `json:"status"`
}

// RequestPage is the paged request-progress listing
type RequestPage struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Results    []RequestItem `json:"results"`
}

// MediaRequest is the submission payload for POST /request.
// Seasons is omitted for movies, the string "all" for whole-show
// requests, or a list of season numbers.
type MediaRequest struct {
	MediaType string      `json:"mediaType"`
	MediaID   int         `json:"mediaId"`
	Is4K      bool        `json:"is4k"`
	Seasons   interface{} `json:"seasons,omitempty"`
}
