package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/models"
	"star-songs/backend/app/services"
)

type ArtistController struct{ Catalog *services.CatalogService }

func NewArtistController(catalog *services.CatalogService) *ArtistController {
	return &ArtistController{Catalog: catalog}
}

func artistOut(a *models.Artist) dto.ArtistOut { return dto.ArtistOut{ID: a.ID, Name: a.Name} }

func (c *ArtistController) List(w http.ResponseWriter, r *http.Request) {
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
	artists, total, err := c.Catalog.ListArtists(page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]dto.ArtistOut, 0, len(artists))
	for _, a := range artists {
		items = append(items, artistOut(a))
	}
	writeJSON(w, http.StatusOK, dto.NewPage(items, page, pageSize, total))
}

func (c *ArtistController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	a, err := c.Catalog.GetArtist(id)
	if errors.Is(err, services.ErrArtistNotFound) {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Artist with id %d not found", id))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artistOut(a))
}

func (c *ArtistController) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.ArtistIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	a, err := c.Catalog.CreateArtist(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artistOut(a))
}

// Put is an upsert: the row is written at the path id, created when absent.
func (c *ArtistController) Put(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	var in dto.ArtistIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	a, err := c.Catalog.UpsertArtist(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artistOut(a))
}

func (c *ArtistController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	err = c.Catalog.DeleteArtist(id)
	if errors.Is(err, services.ErrArtistNotFound) {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Artist with id %d not found", id))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
