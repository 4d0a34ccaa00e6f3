// Package memory provides the in-process user directory. State lives
// for the life of the process only; it is the development and test
// backend, with mongo and redis as the durable alternatives behind the
// same interface.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

type UserDirectory struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]*domain.User)}
}

// Insert checks both uniqueness constraints and stores the user under
// one lock, so two racing registrations for the same email cannot both
// pass the check before either inserts. The email check runs over the
// whole directory before the phone check so a candidate colliding on
// both always reports the email conflict.
func (d *UserDirectory) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	email := domain.NormalizeEmail(user.Email)
	digits := domain.PhoneDigits(user.Phone)

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if domain.NormalizeEmail(u.Email) == email {
			return nil, domain.ErrEmailTaken
		}
	}
	if digits != "" {
		for _, u := range d.users {
			if domain.PhoneDigits(u.Phone) == digits {
				return nil, domain.ErrPhoneTaken
			}
		}
	}

	stored := clone(user)
	stored.ID = uuid.NewString()
	d.users[stored.ID] = stored
	return clone(stored), nil
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if domain.NormalizeEmail(u.Email) == email {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *UserDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

// clone keeps callers from mutating directory state through returned pointers.
func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}
