package users

import (
	"time"

	"github.com/inksign/inksign/internal/models"
)

// SeedUsers returns the built-in demo directory used when no MongoDB is
// configured. Passwords are hashed at startup so the login flow always runs
// through the CredentialVerifier.
func SeedUsers() ([]*models.User, error) {
	now := time.Now().UTC()
	seed := []struct {
		id, email, password, name string
	}{
		{"1", "user@example.com", "password", "John Doe"},
		{"2", "admin@example.com", "admin123", "Admin User"},
	}
	out := make([]*models.User, 0, len(seed))
	for _, s := range seed {
		hash, err := HashPassword(s.password)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.User{
			ID:           s.id,
			Email:        s.email,
			PasswordHash: hash,
			Name:         s.name,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out, nil
}
