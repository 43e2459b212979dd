package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/services"
	"star-songs/backend/global"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, dto.ErrorResponse{Detail: detail})
}

// writeServiceError handles failures with no route-specific mapping:
// rejected input reads as 422, anything else as an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		writeDetail(w, http.StatusUnprocessableEntity, ve.Error())
		return
	}
	global.Logger.Error().Err(err).Msg("request failed")
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
