// Package users serves the signed-in user's profile and password.
package users

import (
	"context"
	"strings"

	"github.com/ayush/flowbit/backend/internal/auth"
	"github.com/ayush/flowbit/backend/internal/models"
)

// Store defines the user persistence this package needs.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id, name string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hashedPw string) error
}

type Service struct {
	store     Store
	passwords *auth.Passwords
}

func NewService(store Store, passwords *auth.Passwords) *Service {
	return &Service{store: store, passwords: passwords}
}

func (s *Service) Profile(ctx context.Context, userID string) (models.Profile, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	return u.Profile(), nil
}

// UpdateProfile changes the display name. The email cannot be changed.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (models.Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Profile{}, models.NewValidationError("name", "must not be empty")
	}
	u, err := s.store.UpdateName(ctx, userID, name)
	if err != nil {
		return models.Profile{}, err
	}
	return u.Profile(), nil
}

// ChangePassword replaces the password after checking the current one.
// Tokens issued before the change stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return models.NewValidationError("currentPassword", "is required")
	}
	if err := auth.ValidatePassword("newPassword", req.NewPassword); err != nil {
		return err
	}

	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.passwords.Check(u.Password, req.CurrentPassword); err != nil {
		return err
	}

	hashed, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, userID, hashed)
}
