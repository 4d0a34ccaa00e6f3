package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// commands is the slice of the redis API the directory uses. Tests
// substitute an in-memory implementation.
type commands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Key layout:
//
//	user:id:<id>        JSON user record
//	user:email:<email>  id owning this normalized email
//	user:phone:<digits> id owning this digit-normalized phone
//
// Uniqueness rides on SETNX: whichever registration claims the index
// key first wins, which makes the check and the insert one atomic step
// per constraint.
type UserDirectory struct {
	client commands
}

func NewUserDirectory(client *redis.Client) *UserDirectory {
	return &UserDirectory{client: client}
}

func (d *UserDirectory) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	email := domain.NormalizeEmail(user.Email)
	digits := domain.PhoneDigits(user.Phone)

	stored := *user
	stored.ID = uuid.NewString()
	stored.Email = email

	ok, err := d.client.SetNX(ctx, emailKey(email), stored.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve email: %w", err)
	}
	if !ok {
		return nil, domain.ErrEmailTaken
	}

	if digits != "" {
		ok, err := d.client.SetNX(ctx, phoneKey(digits), stored.ID, 0).Result()
		if err != nil {
			d.client.Del(ctx, emailKey(email))
			return nil, fmt.Errorf("reserve phone: %w", err)
		}
		if !ok {
			// Losing the phone reservation releases the email one.
			d.client.Del(ctx, emailKey(email))
			return nil, domain.ErrPhoneTaken
		}
	}

	raw, err := json.Marshal(userRecord(&stored))
	if err != nil {
		d.releaseReservations(ctx, email, digits)
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	if err := d.client.Set(ctx, idKey(stored.ID), raw, 0).Err(); err != nil {
		d.releaseReservations(ctx, email, digits)
		return nil, fmt.Errorf("store user: %w", err)
	}
	return &stored, nil
}

// releaseReservations frees index keys claimed by a registration whose
// user record never made it to storage; leaving them would answer
// ErrEmailTaken for an email no lookup can resolve.
func (d *UserDirectory) releaseReservations(ctx context.Context, email, digits string) {
	d.client.Del(ctx, emailKey(email))
	if digits != "" {
		d.client.Del(ctx, phoneKey(digits))
	}
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := d.client.Get(ctx, emailKey(domain.NormalizeEmail(email))).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email index: %w", err)
	}
	return d.FindByID(ctx, id)
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := d.client.Get(ctx, idKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return rec.toDomain(), nil
}

// record is the stored shape; unlike domain.User it serializes the
// password hash, which never leaves this package undecoded.
type record struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func userRecord(u *domain.User) *record {
	return &record{User: *u, PasswordHash: u.PasswordHash}
}

func (r *record) toDomain() *domain.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return &u
}

func idKey(id string) string        { return "user:id:" + id }
func emailKey(email string) string  { return "user:email:" + email }
func phoneKey(digits string) string { return "user:phone:" + digits }
