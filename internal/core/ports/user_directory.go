package ports

import (
	"context"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// UserDirectory is the persistence boundary for identities. Insert must
// enforce both uniqueness constraints and perform the insert within a
// single exclusive operation; callers never pre-check for conflicts.
type UserDirectory interface {
	// Insert stores a new user, assigning its ID. Returns
	// domain.ErrEmailTaken or domain.ErrPhoneTaken on conflict.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail looks up a user by normalized email.
	// Returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID looks up a user by its assigned ID.
	// Returns domain.ErrUserNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
