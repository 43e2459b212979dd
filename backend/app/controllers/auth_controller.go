package controllers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/middleware"
	"star-songs/backend/app/models"
	"star-songs/backend/app/services"
)

type AuthController struct{ Auth *services.AuthService }

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

func userOut(u *models.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, IsActive: u.IsActive}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	u, err := c.Auth.Register(req)
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

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	tokens, err := c.Auth.Login(r.Context(), req, clientIP(r))
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		writeDetail(w, http.StatusTooManyRequests, "Too many failed login attempts")
	case errors.Is(err, services.ErrBadCredentials):
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, services.ErrUserDisabled):
		writeDetail(w, http.StatusForbidden, "Account is disabled")
	case err != nil:
		writeServiceError(w, err)
	default:
		writeJSON(w, http.StatusOK, tokens)
	}
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	tokens, err := c.Auth.Refresh(req.RefreshToken)
	if errors.Is(err, services.ErrInvalidRefresh) {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// Logout revokes the refresh token and reports success either way, so a
// client can always clear its session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if err := c.Auth.Logout(req.RefreshToken); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u, err := c.Auth.Me(claims.UserID())
	if errors.Is(err, services.ErrUserNotFound) {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if errors.Is(err, services.ErrUserDisabled) {
		writeDetail(w, http.StatusForbidden, "User account is disabled")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userOut(u))
}
