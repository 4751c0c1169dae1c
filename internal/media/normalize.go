package media

import (
	"fmt"
	"strconv"
	"strings"
)

// FallbackTitle is used as the listing label when a record has neither
// title nor name.
const FallbackTitle = "Untitled"

const castLimit = 5

// DisplayRecord is the normalized, render-ready projection of a MediaRecord.
// It is rebuilt per render call and never persisted.
type DisplayRecord struct {
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	Genres        string   `json:"genre"`
	Studio        string   `json:"studio"`
	Country       string   `json:"country"`
	Certification string   `json:"mpaa"`
	Runtime       int      `json:"duration"`
	Rating        float64  `json:"rating"`
	Votes         int      `json:"votes"`
	Director      string   `json:"director"`
	Cast          []string `json:"cast"`
	Premiered     string   `json:"premiered"`
	Overview      string   `json:"overview"`
	Description   string   `json:"plot"`
	MediaType     string   `json:"mediatype"`
}

// Normalize converts a raw media record into a DisplayRecord. It is pure
// and total: missing or malformed fields fall back to zero values.
func Normalize(rec *MediaRecord) DisplayRecord {
	d := DisplayRecord{
		Title:         rec.CanonicalTitle(),
		Year:          ParseYear(rec.Date()),
		Genres:        rec.Genres.Join(),
		Studio:        rec.Studios.Join(),
		Country:       rec.ProductionCountries.Join(),
		Certification: rec.Certification,
		Runtime:       int(rec.Runtime),
		Rating:        float64(rec.VoteAverage),
		Votes:         int(rec.VoteCount),
		Director:      director(rec.Crew),
		Cast:          topCast(rec.Cast, castLimit),
		Premiered:     rec.Date(),
		Overview:      rec.Overview,
		MediaType:     rec.Kind(),
	}
	d.Description = describe(d)
	return d
}

// Label builds the listing label: "Title (Year)", year omitted when
// unknown, "Untitled" when the record has no title at all.
func Label(rec *MediaRecord) string {
	title := rec.CanonicalTitle()
	if title == "" {
		return FallbackTitle
	}
	if year := ParseYear(rec.Date()); year > 0 {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

// ParseYear extracts a year from an ISO-ish date string. The leading
// dash-delimited token is used only if it is all digits; anything else
// yields 0.
func ParseYear(date string) int {
	if date == "" {
		return 0
	}
	token := date
	if idx := strings.Index(date, "-"); idx >= 0 {
		token = date[:idx]
	}
	if token == "" {
		return 0
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0
		}
	}
	year, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return year
}

func director(crew []Person) string {
	var names []string
	for _, c := range crew {
		if c.Job == "Director" && c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}

func topCast(cast []Person, limit int) []string {
	var names []string
	for _, p := range cast {
		if p.Name == "" {
			continue
		}
		names = append(names, p.Name)
		if len(names) == limit {
			break
		}
	}
	return names
}

// describe assembles the composite description: labeled lines in a fixed
// order, absent fields contributing nothing, then a blank line and the
// raw overview.
func describe(d DisplayRecord) string {
	var b strings.Builder

	if d.Year > 0 {
		fmt.Fprintf(&b, "%s (%d)", d.Title, d.Year)
	} else {
		b.WriteString(d.Title)
	}

	appendLine := func(label, value string) {
		if value != "" {
			b.WriteString("\n")
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(value)
		}
	}

	appendLine("Genres", d.Genres)
	appendLine("Studio", d.Studio)
	appendLine("Country", d.Country)
	appendLine("Certification", d.Certification)
	if d.Runtime > 0 {
		fmt.Fprintf(&b, "\nRuntime: %d min", d.Runtime)
	}
	if d.Rating > 0 {
		fmt.Fprintf(&b, "\nRating: %s (%d votes)", formatRating(d.Rating), d.Votes)
	}
	appendLine("Director", d.Director)
	appendLine("Cast", strings.Join(d.Cast, ", "))

	if d.Overview != "" {
		b.WriteString("\n\n")
		b.WriteString(d.Overview)
	}

	return b.String()
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
