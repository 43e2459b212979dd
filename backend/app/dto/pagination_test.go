package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewPage(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		p := NewPage([]ArtistOut(nil), 1, 10, 0)
		if p.Items == nil {
			t.Error("items must not be nil for an empty page")
		}
		if p.Pagination.TotalPages != 0 {
			t.Errorf("expected 0 total pages, got %d", p.Pagination.TotalPages)
		}
		if p.Pagination.HasNext || p.Pagination.HasPrev {
			t.Error("empty page has no neighbors")
		}
	})

	t.Run("PartialLastPage", func(t *testing.T) {
		p := NewPage(make([]ArtistOut, 5), 3, 10, 25)
		if p.Pagination.TotalPages != 3 {
			t.Errorf("expected 3 total pages for 25 items, got %d", p.Pagination.TotalPages)
		}
		if p.Pagination.HasNext {
			t.Error("last page must not have next")
		}
		if !p.Pagination.HasPrev {
			t.Error("page 3 must have prev")
		}
	})

	t.Run("ExactMultiple", func(t *testing.T) {
		p := NewPage(make([]ArtistOut, 10), 1, 10, 20)
		if p.Pagination.TotalPages != 2 {
			t.Errorf("expected 2 total pages for 20 items, got %d", p.Pagination.TotalPages)
		}
		if !p.Pagination.HasNext {
			t.Error("page 1 of 2 must have next")
		}
		if p.Pagination.HasPrev {
			t.Error("page 1 must not have prev")
		}
	})

	t.Run("PastTheEnd", func(t *testing.T) {
		p := NewPage([]ArtistOut{}, 9, 10, 25)
		if len(p.Items) != 0 {
			t.Error("past-the-end page must be empty")
		}
		if p.Pagination.HasNext {
			t.Error("past-the-end page must not have next")
		}
		if !p.Pagination.HasPrev {
			t.Error("page 9 must have prev")
		}
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("Marshal", func(t *testing.T) {
		d := NewDate(time.Date(1972, 4, 28, 0, 0, 0, 0, time.UTC))
		b, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `"1972-04-28"` {
			t.Errorf(`expected "1972-04-28", got %s`, b)
		}
	})

	t.Run("NullReleaseDate", func(t *testing.T) {
		out := SongOut{ID: 1, Title: "x"}
		b, err := json.Marshal(out)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if string(m["release_date"]) != "null" {
			t.Errorf("expected null release_date, got %s", m["release_date"])
		}
	})

	t.Run("Unmarshal", func(t *testing.T) {
		var in SongIn
		if err := json.Unmarshal([]byte(`{"title":"Starman","release_date":"1972-04-28"}`), &in); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if in.ReleaseDate == nil || in.ReleaseDate.String() != "1972-04-28" {
			t.Errorf("expected 1972-04-28, got %v", in.ReleaseDate)
		}
	})

	t.Run("RejectsBadFormat", func(t *testing.T) {
		var in SongIn
		if err := json.Unmarshal([]byte(`{"title":"x","release_date":"28/04/1972"}`), &in); err == nil {
			t.Error("expected error for non-ISO date")
		}
	})
}
