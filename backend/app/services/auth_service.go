package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"star-songs/backend/app/dto"
	jwtutil "star-songs/backend/app/jwt"
	"star-songs/backend/app/models"
	"star-songs/backend/app/repo"
	"star-songs/backend/app/throttle"
	"star-songs/backend/global"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxUsernameLen = 50
	maxEmailLen    = 255
	minPasswordLen = 8
)

type AuthService struct {
	users      *repo.UserRepository
	tokens     *repo.RefreshTokenRepository
	signer     *jwtutil.Signer
	throttle   throttle.Throttle
	bcryptCost int
}

func NewAuthService(users *repo.UserRepository, tokens *repo.RefreshTokenRepository, signer *jwtutil.Signer, th throttle.Throttle, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, signer: signer, throttle: th, bcryptCost: bcryptCost}
}

func validateRegistration(in dto.RegisterRequest) error {
	if strings.TrimSpace(in.Username) == "" {
		return invalid("username must not be blank")
	}
	if len(in.Username) > maxUsernameLen {
		return invalid("username must be at most %d characters", maxUsernameLen)
	}
	if !strings.Contains(in.Email, "@") || len(in.Email) > maxEmailLen {
		return invalid("invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

// RegisterWithRole creates an account with the given role. Uniqueness is
// checked on both username and email, username first.
func (s *AuthService) RegisterWithRole(in dto.RegisterRequest, role string) (*models.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}
	if count, err := s.users.CountByUsername(in.Username); err != nil {
		return nil, err
	} else if count > 0 {
		return nil, ErrUsernameTaken
	}
	if count, err := s.users.CountByEmail(in.Email); err != nil {
		return nil, err
	} else if count > 0 {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Register(in dto.RegisterRequest) (*models.User, error) {
	return s.RegisterWithRole(in, models.RoleUser)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) issuePair(u *models.User) (*dto.TokenResponse, error) {
	access, err := s.signer.SignAccess(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, exp, err := s.signer.SignRefresh(u.ID)
	if err != nil {
		return nil, err
	}
	row := &models.RefreshToken{ID: uuid.NewString(), UserID: u.ID, TokenHash: hashToken(refresh), ExpiresAt: exp}
	if err := s.tokens.Create(row); err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.signer.AccessTTL().Seconds()),
	}, nil
}

// Login exchanges credentials for a token pair. Failures against the same
// username/address pair burn the throttle budget before issuance resumes.
func (s *AuthService) Login(ctx context.Context, in dto.LoginRequest, remoteAddr string) (*dto.TokenResponse, error) {
	key := in.Username + "|" + remoteAddr
	locked, err := s.throttle.Locked(ctx, key)
	if err != nil {
		global.Logger.Warn().Err(err).Msg("login throttle unavailable")
	} else if locked {
		return nil, ErrTooManyAttempts
	}

	u, err := s.users.FindByUsername(in.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if _, terr := s.throttle.Fail(ctx, key); terr != nil {
			global.Logger.Warn().Err(terr).Msg("login throttle unavailable")
		}
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		if _, terr := s.throttle.Fail(ctx, key); terr != nil {
			global.Logger.Warn().Err(terr).Msg("login throttle unavailable")
		}
		return nil, ErrBadCredentials
	}
	if !u.IsActive {
		return nil, ErrUserDisabled
	}
	if terr := s.throttle.Reset(ctx, key); terr != nil {
		global.Logger.Warn().Err(terr).Msg("login throttle unavailable")
	}
	return s.issuePair(u)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Every failure mode reads the same to the caller.
func (s *AuthService) Refresh(raw string) (*dto.TokenResponse, error) {
	claims, err := s.signer.Parse(raw)
	if err != nil || claims.TokenType != jwtutil.TypeRefresh {
		return nil, ErrInvalidRefresh
	}
	row, err := s.tokens.FindByHash(hashToken(raw))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	if row.Revoked || time.Now().After(row.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}
	u, err := s.users.FindByID(claims.UserID())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidRefresh
	}
	if err := s.tokens.Revoke(row.ID); err != nil {
		return nil, err
	}
	return s.issuePair(u)
}

// Logout revokes the presented refresh token. Unknown tokens are ignored so
// the endpoint stays idempotent.
func (s *AuthService) Logout(raw string) error {
	row, err := s.tokens.FindByHash(hashToken(raw))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.tokens.Revoke(row.ID)
}

// RevokeUserSessions revokes every live refresh token for a user, forcing a
// fresh login once the current access tokens age out.
func (s *AuthService) RevokeUserSessions(userID string) error {
	return s.tokens.RevokeAllForUser(userID)
}

// Me returns the live account behind a token subject. Deleted accounts read
// as not found, deactivated ones as disabled, so a still-valid access token
// stops working the moment an admin pulls the plug.
func (s *AuthService) Me(userID string) (*models.User, error) {
	u, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserDisabled
	}
	return u, nil
}

// EnsureAdmin seeds the configured admin account once. An empty password
// disables seeding.
func (s *AuthService) EnsureAdmin(username, email, password string) error {
	if password == "" {
		return nil
	}
	count, err := s.users.CountByUsername(username)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = s.RegisterWithRole(dto.RegisterRequest{Username: username, Email: email, Password: password}, models.RoleAdmin)
	return err
}
