package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ayush/flowbit/backend/internal/models"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service registers and authenticates users.
type Service struct {
	users     UserStore
	passwords *Passwords
	tokens    *TokenManager
}

func NewService(users UserStore, passwords *Passwords, tokens *TokenManager) *Service {
	return &Service{users: users, passwords: passwords, tokens: tokens}
}

// Register creates a user and returns a session for it.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, models.NewValidationError("", "name, email, and password are required")
	}
	if err := ValidatePassword("password", req.Password); err != nil {
		return nil, err
	}

	hashed, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, name, email, hashed)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Login checks the credentials and returns a new session.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.passwords.Check(user.Password, req.Password); err != nil {
		return nil, err
	}
	return s.session(user)
}

func (s *Service) session(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Profile: user.Profile(), Token: token}, nil
}
