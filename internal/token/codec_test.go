package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "user-1",
		Email:    "ann@example.com",
		UserType: domain.TypeCustomer,
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	if _, err := NewCodec(""); err != ErrNoSecret {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	codec, err := NewCodec("secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	tok, err := codec.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token, got empty string")
	}

	claims, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ann@example.com" || claims.UserType != domain.TypeCustomer {
		t.Fatalf("claims did not round-trip: %+v", claims)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatalf("expected issued-at and expires-at to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != TTL {
		t.Fatalf("expected lifetime %v, got %v", TTL, got)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	signer, _ := NewCodec("secret-a")
	verifier, _ := NewCodec("secret-b")

	tok, err := signer.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := verifier.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	codec, _ := NewCodec("secret")
	tok, err := codec.Sign(testUser())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// Swap the payload segment for one claiming a different user type;
	// the signature no longer covers it.
	forged, err := codec.Sign(&domain.User{ID: "user-1", Email: "ann@example.com", UserType: domain.TypeProvider})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	orig := strings.Split(tok, ".")
	other := strings.Split(forged, ".")
	tampered := orig[0] + "." + other[1] + "." + orig[2]

	if _, err := codec.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	codec, _ := NewCodec("secret")

	// Hand-build a token with the same secret but an expiry in the past:
	// the signature is valid, only the clock check can reject it.
	now := time.Now()
	claims := &Claims{
		UserID:   "user-1",
		Email:    "ann@example.com",
		UserType: domain.TypeCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-TTL - time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := codec.Verify(expired); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	codec, _ := NewCodec("secret")
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Verify(tok); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestVerify_RejectsUnsignedAlgorithm(t *testing.T) {
	codec, _ := NewCodec("secret")

	claims := &Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := codec.Verify(unsigned); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

func TestCookieMaxAgeMatchesTTL(t *testing.T) {
	if CookieMaxAge != 604800 {
		t.Fatalf("expected 7 days in seconds, got %d", CookieMaxAge)
	}
}
