package domain

import "time"

// Game is a catalogue entry with a release date. Games releasing inside the
// lookahead window are surfaced in the newsletter body.
type Game struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"release_date"`
	Description string    `json:"description,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
}
