package ports

import (
	"context"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// RegisterInput carries the already shape-validated registration fields.
// The service still re-normalizes email and phone before any comparison.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	UserType domain.UserType
	Phone    string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}
