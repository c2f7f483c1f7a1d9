package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/flowbit/backend/internal/models"
)

// MinPasswordLength matches the client-side rule on the profile page.
const MinPasswordLength = 6

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

// Passwords hashes and checks passwords with bcrypt.
type Passwords struct {
	Cost int
}

func NewPasswords() *Passwords {
	return &Passwords{Cost: bcrypt.DefaultCost}
}

// Hash returns a salted bcrypt hash of pw.
func (p *Passwords) Hash(pw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), p.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Check compares pw against hash in constant time. A mismatch returns
// models.ErrInvalidCredentials.
func (p *Passwords) Check(hash, pw string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return models.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

// ValidatePassword enforces the length bounds.
func ValidatePassword(field, pw string) error {
	if len(pw) < MinPasswordLength {
		return models.NewValidationError(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(pw) > MaxPasswordBytes {
		return models.NewValidationError(field, fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}
