package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/models"
	"star-songs/backend/app/services"
)

type SongController struct{ Catalog *services.CatalogService }

func NewSongController(catalog *services.CatalogService) *SongController {
	return &SongController{Catalog: catalog}
}

func songOut(s *models.Song) dto.SongOut {
	out := dto.SongOut{ID: s.ID, Title: s.Title, ArtistID: s.ArtistID, URL: s.URL, Distance: s.Distance}
	if s.ReleaseDate != nil {
		out.ReleaseDate = dto.NewDate(*s.ReleaseDate)
	}
	return out
}

// missingArtistDetail names the foreign key that failed a song write.
func missingArtistDetail(in dto.SongIn) string {
	if in.ArtistID != nil {
		return fmt.Sprintf("Artist with id %d not found", *in.ArtistID)
	}
	return "Artist not found"
}

func (c *SongController) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "page must be an integer")
		return
	}
	pageSize, err := queryInt(r, "page_size", 10)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "page_size must be an integer")
		return
	}
	var artistID *int
	if s := r.URL.Query().Get("artist_id"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "artist_id must be an integer")
			return
		}
		artistID = &v
	}
	songs, total, err := c.Catalog.ListSongs(page, pageSize, artistID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]dto.SongOut, 0, len(songs))
	for _, s := range songs {
		items = append(items, songOut(s))
	}
	writeJSON(w, http.StatusOK, dto.NewPage(items, page, pageSize, total))
}

func (c *SongController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	s, err := c.Catalog.GetSong(id)
	if errors.Is(err, services.ErrSongNotFound) {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Song with id %d not found", id))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songOut(s))
}

func (c *SongController) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.SongIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	s, err := c.Catalog.CreateSong(in)
	if errors.Is(err, services.ErrArtistNotFound) {
		writeDetail(w, http.StatusNotFound, missingArtistDetail(in))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, songOut(s))
}

func (c *SongController) Put(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	var in dto.SongIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	s, err := c.Catalog.UpsertSong(id, in)
	if errors.Is(err, services.ErrArtistNotFound) {
		writeDetail(w, http.StatusNotFound, missingArtistDetail(in))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songOut(s))
}

func (c *SongController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	err = c.Catalog.DeleteSong(id)
	if errors.Is(err, services.ErrSongNotFound) {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Song with id %d not found", id))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
