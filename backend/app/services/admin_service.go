package services

import (
	"errors"
	"strings"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/models"
	"star-songs/backend/app/repo"

	"gorm.io/gorm"
)

const maxUserPageLimit = 1000

type AdminService struct {
	users *repo.UserRepository
	auth  *AuthService
}

func NewAdminService(users *repo.UserRepository, auth *AuthService) *AdminService {
	return &AdminService{users: users, auth: auth}
}

func validRole(role string) bool {
	return role == models.RoleUser || role == models.RoleAdmin
}

func (s *AdminService) ListUsers(filter repo.UserFilter) ([]*models.User, int64, error) {
	if filter.Skip < 0 {
		return nil, 0, invalid("skip must not be negative")
	}
	// defaulting an absent limit is the query layer's job; an explicit
	// zero is rejected like any other out-of-range value
	if filter.Limit < 1 || filter.Limit > maxUserPageLimit {
		return nil, 0, invalid("limit must be between 1 and %d", maxUserPageLimit)
	}
	if filter.Role != nil && !validRole(*filter.Role) {
		return nil, 0, &RoleError{Role: *filter.Role}
	}
	return s.users.List(filter)
}

func (s *AdminService) GetUser(id string) (*models.User, error) {
	u, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *AdminService) CreateUser(in dto.RegisterRequest, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !validRole(role) {
		return nil, invalid("role must be user or admin")
	}
	return s.auth.RegisterWithRole(in, role)
}

func (s *AdminService) UpdateUser(id string, in dto.UserUpdateRequest) (*models.User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil && *in.Email != u.Email {
		if !strings.Contains(*in.Email, "@") || len(*in.Email) > maxEmailLen {
			return nil, invalid("invalid email address")
		}
		count, err := s.users.CountByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		u.Email = *in.Email
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, invalid("role must be user or admin")
		}
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := s.auth.RevokeUserSessions(u.ID); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// DeleteUser removes an account. Admins cannot remove themselves; that
// would strand the deployment without an administrator mid-session.
func (s *AdminService) DeleteUser(actorID, id string) (*models.User, error) {
	if actorID == id {
		return nil, ErrSelfDelete
	}
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	// refresh tokens go with the account
	if err := s.auth.RevokeUserSessions(id); err != nil {
		return nil, err
	}
	if _, err := s.users.Delete(id); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AdminService) SearchByUsername(username string) (*models.User, error) {
	u, err := s.users.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}
