package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inksign/inksign/internal/models"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func testUser() *models.User {
	return &models.User{ID: "1", Email: "user@example.com", Name: "John Doe"}
}

func TestIssueAndVerify_Claims(t *testing.T) {
	tokenStr, err := Issue(testSecret, testUser(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := Verify(testSecret, tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.UserID != "1" {
		t.Fatalf("unexpected userId: got=%q want=%q", id.UserID, "1")
	}
	if id.Email != "user@example.com" {
		t.Fatalf("unexpected email: %q", id.Email)
	}
	if id.Name != "John Doe" {
		t.Fatalf("unexpected name: %q", id.Name)
	}
}

func TestVerify_Expired(t *testing.T) {
	tokenStr, err := Issue(testSecret, testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := Verify(testSecret, tokenStr); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got: %v", err)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	tokenStr, err := Issue(testSecret, testUser(), time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := Verify("different-secret-xxxxxxxxxxxxxxxx", tokenStr); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestVerify_Malformed(t *testing.T) {
	if _, err := Verify(testSecret, "not.a.jwt"); err == nil {
		t.Fatalf("expected verification to fail for malformed token")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := (&jwt.Token{}).EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := (&jwt.Token{}).EncodeSegment([]byte(`{"userId":"1","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := Verify(testSecret, tok); err == nil {
		t.Fatalf("expected verification to reject alg=none token")
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	tokenStr, err := Issue(testSecret, testUser(), 5*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := jwt.NewParser().DecodeSegment(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), `"userId":"1"`, `"userId":"2"`, 1)
	parts[1] = (&jwt.Token{}).EncodeSegment([]byte(payloadStr))
	tampered := strings.Join(parts, ".")
	if _, err := Verify(testSecret, tampered); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}

func TestVerify_MissingUserID(t *testing.T) {
	// token signed with the right secret but without a userId claim
	claims := jwt.MapClaims{"email": "x@example.com", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := Verify(testSecret, raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty userId, got: %v", err)
	}
}

func TestRemainingTTL(t *testing.T) {
	tokenStr, err := Issue(testSecret, testUser(), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	ttl, err := RemainingTTL(testSecret, tokenStr)
	if err != nil {
		t.Fatalf("RemainingTTL error: %v", err)
	}
	if ttl <= 55*time.Minute || ttl > time.Hour {
		t.Fatalf("unexpected remaining ttl: %v", ttl)
	}

	if _, err := RemainingTTL(testSecret, "garbage"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
