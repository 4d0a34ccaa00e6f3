package service

import (
	"context"
	"strings"
	"time"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
	"github.com/servicehub/marketplace-api/internal/password"
	"github.com/servicehub/marketplace-api/internal/token"
)

// AuthService implements registration, login and session resolution on
// top of a user directory and the token codec. Field-shape validation
// happens at the HTTP boundary; this service only re-normalizes inputs
// before they are compared or stored.
type AuthService struct {
	directory ports.UserDirectory
	codec     *token.Codec
}

func NewAuthService(directory ports.UserDirectory, codec *token.Codec) *AuthService {
	return &AuthService{directory: directory, codec: codec}
}

// Register creates a new identity and issues its first session token.
// Uniqueness is decided entirely inside directory.Insert, so two racing
// registrations for the same email cannot both succeed.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	if !in.UserType.Valid() {
		return nil, "", domain.ErrInvalidUserType
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		UserType:     in.UserType,
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.directory.Insert(ctx, user)
	if err != nil {
		return nil, "", err
	}

	tok, err := s.codec.Sign(created)
	if err != nil {
		return nil, "", err
	}
	return created, tok, nil
}

// Login verifies credentials and issues a fresh session token. A missing
// user and a wrong password fail identically so the response text never
// confirms whether the email is registered.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*domain.User, string, error) {
	user, err := s.directory.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	tok, err := s.codec.Sign(user)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}

// CurrentUser resolves the identity behind a session token. An invalid
// or expired token and a token whose user no longer exists (directory
// reset) are indistinguishable to the caller.
func (s *AuthService) CurrentUser(ctx context.Context, tok string) (*domain.User, error) {
	if tok == "" {
		return nil, domain.ErrInvalidSession
	}

	claims, err := s.codec.Verify(tok)
	if err != nil {
		return nil, domain.ErrInvalidSession
	}

	user, err := s.directory.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}
