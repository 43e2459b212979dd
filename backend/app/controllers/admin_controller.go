package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/middleware"
	"star-songs/backend/app/repo"
	"star-songs/backend/app/services"
)

type AdminController struct{ Admin *services.AdminService }

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{Admin: admin}
}

func (c *AdminController) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "skip must be an integer")
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "limit must be an integer")
		return
	}
	filter := repo.UserFilter{Skip: skip, Limit: limit}
	if role := r.URL.Query().Get("role"); role != "" {
		filter.Role = &role
	}
	if s := r.URL.Query().Get("is_active"); s != "" {
		active, err := strconv.ParseBool(s)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "is_active must be a boolean")
			return
		}
		filter.IsActive = &active
	}
	users, total, err := c.Admin.ListUsers(filter)
	if err != nil {
		var re *services.RoleError
		if errors.As(err, &re) {
			writeDetail(w, http.StatusBadRequest, re.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userOut(u))
	}
	writeJSON(w, http.StatusOK, dto.UserListResponse{Users: out, Total: total})
}

func (c *AdminController) Get(w http.ResponseWriter, r *http.Request) {
	u, err := c.Admin.GetUser(r.PathValue("id"))
	if errors.Is(err, services.ErrUserNotFound) {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userOut(u))
}

// Create makes an account with a caller-chosen role, given as a query
// parameter so the body stays the plain registration shape.
func (c *AdminController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	u, err := c.Admin.CreateUser(req, r.URL.Query().Get("role"))
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		writeDetail(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, services.ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case err != nil:
		writeServiceError(w, err)
	default:
		writeJSON(w, http.StatusCreated, userOut(u))
	}
}

func (c *AdminController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	u, err := c.Admin.UpdateUser(r.PathValue("id"), req)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case err != nil:
		writeServiceError(w, err)
	default:
		writeJSON(w, http.StatusOK, userOut(u))
	}
}

func (c *AdminController) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u, err := c.Admin.DeleteUser(claims.UserID(), r.PathValue("id"))
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		writeDetail(w, http.StatusBadRequest, "Cannot delete your own account")
	case errors.Is(err, services.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, "User not found")
	case err != nil:
		writeServiceError(w, err)
	default:
		writeJSON(w, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("User %s deleted successfully", u.Username)})
	}
}

func (c *AdminController) Search(w http.ResponseWriter, r *http.Request) {
	u, err := c.Admin.SearchByUsername(r.PathValue("username"))
	if errors.Is(err, services.ErrUserNotFound) {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userOut(u))
}
