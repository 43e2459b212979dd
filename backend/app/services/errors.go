package services

import (
	"errors"
	"fmt"
)

var (
	ErrArtistNotFound  = errors.New("artist not found")
	ErrSongNotFound    = errors.New("song not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already registered")
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadCredentials  = errors.New("incorrect username or password")
	ErrUserDisabled    = errors.New("account is disabled")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	ErrInvalidRefresh  = errors.New("invalid refresh token")
	ErrSelfDelete      = errors.New("cannot delete your own account")
)

// ValidationError carries a caller-facing message about a rejected input.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// RoleError reports a role value outside the known set. It keeps the value
// so handlers can echo it back.
type RoleError struct{ Role string }

func (e *RoleError) Error() string { return fmt.Sprintf("Invalid role: %s", e.Role) }
