package models

import "time"

// Known settings keys
const (
	KeySearchHistory  = "search_history"
	KeyMovieViewMode  = "view_mode_movies"
	KeyTVShowViewMode = "view_mode_tvshows"
)

// Setting represents a persisted key/value setting
type Setting struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}
