package api

import (
	"github.com/gdelafosse/seerrbridge/internal/catalog"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/workflow"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Entry is one renderable item of a listing. Folder entries navigate,
// non-folder entries carry the info facet and the actions the host UI
// may offer.
type Entry struct {
	Label   string               `json:"label"`
	Target  string               `json:"target,omitempty"`
	Folder  bool                 `json:"folder"`
	Info    *media.DisplayRecord `json:"info,omitempty"`
	Art     map[string]string    `json:"art,omitempty"`
	Actions []workflow.Action    `json:"actions,omitempty"`
}

// EntryList is a page of entries plus the navigation context the host
// UI needs to turn pages without rebuilding the query
type EntryList struct {
	Entries     []Entry        `json:"entries"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
	Prev        *catalog.Query `json:"prev,omitempty"`
	Next        *catalog.Query `json:"next,omitempty"`
	ContentKind string         `json:"content_kind,omitempty"`
	ViewMode    string         `json:"view_mode,omitempty"`
	Notice      string         `json:"notice,omitempty"`
}

// SeasonChoice is one option of the season multiselect prompt
type SeasonChoice struct {
	SeasonNumber int    `json:"season_number"`
	Label        string `json:"label"`
	EpisodeCount int    `json:"episode_count"`
}

// CreateRequestBody is the request-submission payload
type CreateRequestBody struct {
	MediaType string      `json:"media_type" binding:"required"`
	MediaID   int         `json:"media_id" binding:"required"`
	Is4K      bool        `json:"is4k"`
	Seasons   interface{} `json:"seasons,omitempty"`
}

// ResolveResponse carries a resolved library path
type ResolveResponse struct {
	Path string `json:"path"`
}

// HistoryResponse lists the stored search queries, newest first
type HistoryResponse struct {
	Queries []string `json:"queries"`
}
