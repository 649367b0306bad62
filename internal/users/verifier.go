package users

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier checks a presented password against a stored credential.
// The login flow never compares raw strings itself.
type CredentialVerifier interface {
	Verify(hash, password string) bool
}

// BcryptVerifier verifies salted bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword produces a bcrypt hash for seeding and provisioning tools.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
