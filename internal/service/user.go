package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"taskease/internal/auth"
	"taskease/internal/models"
	"taskease/internal/repository"
)

// UserService serves the current user's own profile; there is no way to
// address another user's record.
type UserService struct {
	users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, who auth.Identity) (*models.User, error) {
	user, err := s.users.FindByID(ctx, who.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput fields are optional; nil means unchanged.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

func (s *UserService) UpdateProfile(ctx context.Context, who auth.Identity, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, who)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
