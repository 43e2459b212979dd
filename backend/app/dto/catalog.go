package dto

import (
	"fmt"
	"time"
)

type ArtistIn struct {
	Name string `json:"name"`
}

type ArtistOut struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type SongIn struct {
	Title       string   `json:"title"`
	ArtistID    *int     `json:"artist_id"`
	ReleaseDate *Date    `json:"release_date"`
	URL         *string  `json:"url"`
	Distance    *float64 `json:"distance"`
}

type SongOut struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ArtistID    *int     `json:"artist_id"`
	ReleaseDate *Date    `json:"release_date"`
	URL         *string  `json:"url"`
	Distance    *float64 `json:"distance"`
}

const dateLayout = "2006-01-02"

// Date marshals as a bare YYYY-MM-DD string.
type Date struct{ time.Time }

func NewDate(t time.Time) *Date { return &Date{t} }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s, want \"YYYY-MM-DD\"", s)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date %s, want \"YYYY-MM-DD\"", s)
	}
	d.Time = t
	return nil
}

func (d Date) String() string { return d.Format(dateLayout) }
