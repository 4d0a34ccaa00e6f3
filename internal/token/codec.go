// Package token signs and verifies the session tokens handed to
// clients. A token is a compact HS256 JWT carrying the identity claims
// the rest of the system trusts between requests.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// TTL is the session lifetime. The auth-token cookie Max-Age derives
// from the same constant so the two can never drift apart.
const TTL = 7 * 24 * time.Hour

// CookieMaxAge is TTL expressed in whole seconds for the Set-Cookie header.
const CookieMaxAge = int(TTL / time.Second)

var (
	// ErrNoSecret is returned by NewCodec when the signing secret is empty.
	ErrNoSecret = errors.New("token: signing secret is empty")
	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong algorithm, malformed input, or expiry. Callers must treat an
	// invalid token exactly like an absent one.
	ErrInvalidToken = errors.New("token: invalid or expired")
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID   string          `json:"userId"`
	Email    string          `json:"email"`
	UserType domain.UserType `json:"userType"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec. The secret must be non-empty; TTL is fixed.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret), ttl: TTL}, nil
}

// Sign issues a token for the user, valid from now until now+TTL.
func (c *Codec) Sign(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// Expiry is a hard boundary with no leeway.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
