package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"star-songs/backend/app/dto"
	jwtutil "star-songs/backend/app/jwt"
	"star-songs/backend/app/models"
	"star-songs/backend/app/services"
)

type ctxKey int

const ClaimsKey ctxKey = 1

// AccountSource resolves a token subject to its live account, so
// deactivation, deletion and role changes apply before the token expires.
type AccountSource interface {
	Me(userID string) (*models.User, error)
}

type Auth struct {
	Signer   *jwtutil.Signer
	Accounts AccountSource
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Detail: detail})
}

// authenticate returns the access claims for the request, or a status and
// detail message describing why there are none.
func (a *Auth) authenticate(r *http.Request) (*jwtutil.Claims, int, string) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return nil, http.StatusUnauthorized, "Not authenticated"
	}
	claims, err := a.Signer.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil || claims.TokenType != jwtutil.TypeAccess {
		return nil, http.StatusUnauthorized, "Could not validate credentials"
	}
	if a.Accounts != nil {
		u, err := a.Accounts.Me(claims.UserID())
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return nil, http.StatusUnauthorized, "User not found"
		case errors.Is(err, services.ErrUserDisabled):
			return nil, http.StatusForbidden, "User account is disabled"
		case err != nil:
			return nil, http.StatusInternalServerError, "Internal server error"
		}
		// the row, not the token, is authoritative for the role
		claims.Role = u.Role
	}
	return claims, 0, ""
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, status, detail := a.authenticate(r)
		if claims == nil {
			writeError(w, status, detail)
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, status, detail := a.authenticate(r)
		if claims == nil {
			writeError(w, status, detail)
			return
		}
		if claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
