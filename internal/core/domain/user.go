package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// UserType distinguishes the two account kinds on the marketplace.
// It is fixed at registration and never changes afterwards.
type UserType string

const (
	TypeCustomer UserType = "customer"
	TypeProvider UserType = "provider"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	return t == TypeCustomer || t == TypeProvider
}

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrPhoneTaken         = errors.New("user with this phone already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserType    = errors.New("invalid registration details")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("session is missing, invalid or expired")
)

// User is the canonical identity record held by the user directory.
// PasswordHash never crosses the API boundary (json:"-").
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	UserType     UserType  `json:"userType"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an email address. Every email
// comparison in the system happens on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PhoneDigits strips everything but digits from a phone number.
// Uniqueness checks compare phones by this form only; the user-entered
// formatting is preserved on the record itself.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
