package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inksign/inksign/internal/models"
)

// ErrInvalidToken covers malformed, tampered and expired tokens. Callers must
// not distinguish causes in client-visible responses.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the typed payload carried by an inksign access token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Issue creates a signed HS256 access token for the user, valid for ttl.
func Issue(secret string, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// Verify parses and validates a raw token against the shared secret and
// returns the embedded identity. Only HS256 signatures are accepted.
func Verify(secret, raw string) (*models.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

// Verifier binds a shared secret so the guard middleware can verify tokens
// without knowing about configuration.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier { return &Verifier{secret: secret} }

func (v *Verifier) Verify(ctx context.Context, raw string) (*models.Identity, error) {
	return Verify(v.secret, raw)
}

// RemainingTTL returns the time left until the token expires. Used to bound
// blacklist entries on logout; verification rules match Verify.
func RemainingTTL(secret, raw string) (time.Duration, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid || claims.ExpiresAt == nil {
		return 0, ErrInvalidToken
	}
	return time.Until(claims.ExpiresAt.Time), nil
}
