package media

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Media types as reported by the request-service API
const (
	TypeMovie   = "movie"
	TypeTV      = "tv"
	TypeEpisode = "episode"
)

// Request-service availability codes carried in MediaInfo.Status
const (
	StatusCodeRequested = 3
	StatusCodePartial   = 4
	StatusCodeAvailable = 5
)

// FlexInt decodes a JSON number or numeric string, defaulting to 0 for
// anything else. API records carry runtimes and vote counts in either shape.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		*f = FlexInt(int(fl))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = FlexInt(n)
		}
	}
	return nil
}

// FlexFloat decodes a JSON number or numeric string, defaulting to 0.0
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		*f = FlexFloat(fl)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if fl, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = FlexFloat(fl)
		}
	}
	return nil
}

// NameList decodes a list that mixes `{name: ...}` objects and bare strings.
// Elements lacking a name key are kept as their raw JSON text.
type NameList []string

// UnmarshalJSON implements json.Unmarshaler
func (nl *NameList) UnmarshalJSON(data []byte) error {
	*nl = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	names := make([]string, 0, len(raw))
	for _, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			names = append(names, s)
			continue
		}
		var obj struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(elem, &obj); err == nil && obj.Name != nil {
			names = append(names, *obj.Name)
			continue
		}
		names = append(names, string(elem))
	}
	*nl = names
	return nil
}

// Join returns the comma-joined list
func (nl NameList) Join() string {
	return strings.Join(nl, ", ")
}

// Person represents a cast or crew entry
type Person struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Job       string `json:"job"`
}

// Season represents a TV season summary
type Season struct {
	SeasonNumber int    `json:"seasonNumber"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episodeCount"`
}

// SpokenLanguage represents a spoken language entry
type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
	ISO6391     string `json:"iso_639_1"`
}

// MediaInfo carries the request-service's availability data for a title
type MediaInfo struct {
	Status    FlexInt `json:"status"`
	MediaType string  `json:"mediaType"`
	TmdbID    int     `json:"tmdbId"`
	PlayURL   string  `json:"plexUrl"`
}

// MediaRecord is the raw API representation of a movie, TV show, or episode.
// Exactly one of Title or Name is populated; everything else is optional.
type MediaRecord struct {
	ID        int    `json:"id"`
	MediaType string `json:"mediaType"`

	Title string `json:"title"`
	Name  string `json:"name"`

	ReleaseDate  string `json:"releaseDate"`
	FirstAirDate string `json:"firstAirDate"`
	Overview     string `json:"overview"`

	Genres              NameList `json:"genres"`
	Studios             NameList `json:"studios"`
	ProductionCountries NameList `json:"productionCountries"`

	Certification string    `json:"certification"`
	Runtime       FlexInt   `json:"runtime"`
	VoteAverage   FlexFloat `json:"voteAverage"`
	VoteCount     FlexInt   `json:"voteCount"`

	Cast []Person `json:"cast"`
	Crew []Person `json:"crew"`

	PosterPath    string `json:"posterPath"`
	BackdropPath  string `json:"backdropPath"`
	LogoPath      string `json:"logoPath"`
	BannerPath    string `json:"bannerPath"`
	LandscapePath string `json:"landscapePath"`
	IconPath      string `json:"iconPath"`
	ClearartPath  string `json:"clearartPath"`

	// TV specific
	Seasons          []Season         `json:"seasons"`
	NumberOfSeasons  int              `json:"numberOfSeasons"`
	NumberOfEpisodes int              `json:"numberOfEpisodes"`
	SpokenLanguages  []SpokenLanguage `json:"spokenLanguages"`

	// Episode specific
	EpisodeNumber int `json:"episodeNumber"`

	MediaInfo *MediaInfo `json:"mediaInfo"`
}

// Date returns the record's release or first-air date, whichever is set
func (r *MediaRecord) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// CanonicalTitle returns the record's title or name
func (r *MediaRecord) CanonicalTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Kind returns the record's media type, defaulting to movie
func (r *MediaRecord) Kind() string {
	if r.MediaType == "" {
		return TypeMovie
	}
	return r.MediaType
}

// StatusCode returns the request-service availability code, 0 when unknown
func (r *MediaRecord) StatusCode() int {
	if r.MediaInfo == nil {
		return 0
	}
	return int(r.MediaInfo.Status)
}
