package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/inksign/inksign/internal/models"
)

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password required")
	// ErrInvalidCredentials is returned for any unknown-email or
	// wrong-password combination. The cause is deliberately not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service validates login claims against the user directory.
type Service struct {
	repo     Repository
	verifier CredentialVerifier
}

func NewService(r Repository, v CredentialVerifier) *Service {
	return &Service{repo: r, verifier: v}
}

// Authenticate checks the email/password pair and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if u == nil || !s.verifier.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID fetches a user from the directory.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
