package jwtutil

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Claims struct {
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// UserID is the subject claim; user IDs ride in "sub".
func (c *Claims) UserID() string { return c.Subject }

type Signer struct {
	Secret      []byte
	Issuer      string
	AccessMin   int
	RefreshDays int
}

func (s *Signer) AccessTTL() time.Duration  { return time.Duration(s.AccessMin) * time.Minute }
func (s *Signer) RefreshTTL() time.Duration { return time.Duration(s.RefreshDays) * 24 * time.Hour }

func (s *Signer) SignAccess(userID, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username, Role: role, TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID, Issuer: s.Issuer, IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL()))},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// SignRefresh issues a refresh token with a random jti so two tokens for the
// same user never collide, and returns its expiry for server-side storage.
func (s *Signer) SignRefresh(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.RefreshTTL())
	claims := Claims{
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID, Issuer: s.Issuer, ID: uuid.NewString(), IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(exp)},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	return signed, exp, err
}

func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) { return s.Secret, nil })
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
