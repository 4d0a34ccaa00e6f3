package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
	"github.com/servicehub/marketplace-api/internal/token"
)

type stubDirectory struct {
	users  map[string]*domain.User
	nextID int
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (d *stubDirectory) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	email := domain.NormalizeEmail(user.Email)
	digits := domain.PhoneDigits(user.Phone)
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
	d.nextID++
	stored := cloneUser(user)
	stored.ID = "user-" + strconv.Itoa(d.nextID)
	d.users[stored.ID] = cloneUser(stored)
	return stored, nil
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	for _, u := range d.users {
		if domain.NormalizeEmail(u.Email) == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func newTestService(t *testing.T) (*AuthService, *stubDirectory) {
	t.Helper()
	codec, err := token.NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	dir := newStubDirectory()
	return NewAuthService(dir, codec), dir
}

func register(t *testing.T, svc *AuthService, email, pass string) (*domain.User, string) {
	t.Helper()
	user, tok, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    email,
		Password: pass,
		Name:     "Ann",
		UserType: domain.TypeCustomer,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return user, tok
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestService(t)

	user, tok, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "A@Test.com",
		Password: "Passw0rd",
		Name:     "  Ann  ",
		UserType: domain.TypeCustomer,
		Phone:    " +7 (999) 123-45-67 ",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "a@test.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Ann" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Phone != "+7 (999) 123-45-67" {
		t.Fatalf("expected trimmed phone, got %q", user.Phone)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "Passw0rd" || user.PasswordHash == "" {
		t.Fatalf("password was not hashed")
	}
	if user.CreatedAt.IsZero() || !user.CreatedAt.Equal(user.UpdatedAt) {
		t.Fatalf("expected creation timestamps to be set together")
	}
	if tok == "" {
		t.Fatalf("expected session token")
	}
}

func TestRegister_UniqueIDsAcrossUsers(t *testing.T) {
	svc, _ := newTestService(t)

	a, _ := register(t, svc, "a@test.com", "Passw0rd")
	b, _ := register(t, svc, "b@test.com", "Passw0rd")
	if a.ID == b.ID {
		t.Fatalf("two registrations share id %q", a.ID)
	}
}

func TestRegister_DuplicateEmailDifferentCase(t *testing.T) {
	svc, _ := newTestService(t)

	register(t, svc, "ann@test.com", "Passw0rd")
	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "  ANN@test.COM ",
		Password: "Other1pass",
		Name:     "Imposter",
		UserType: domain.TypeProvider,
	})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_DuplicatePhoneDifferentFormatting(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@test.com", Password: "Passw0rd", Name: "A",
		UserType: domain.TypeCustomer, Phone: "+7 (999) 123-45-67",
	})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err = svc.Register(context.Background(), ports.RegisterInput{
		Email: "b@test.com", Password: "Passw0rd", Name: "B",
		UserType: domain.TypeCustomer, Phone: "79991234567",
	})
	if err != domain.ErrPhoneTaken {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestRegister_InvalidUserType(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@test.com", Password: "Passw0rd", Name: "A", UserType: "admin",
	})
	if err != domain.ErrInvalidUserType {
		t.Fatalf("expected ErrInvalidUserType, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	created, _ := register(t, svc, "ann@test.com", "Passw0rd")

	user, tok, err := svc.Login(context.Background(), "ann@test.com", "Passw0rd")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("login returned id %q, registered %q", user.ID, created.ID)
	}

	resolved, err := svc.CurrentUser(context.Background(), tok)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if resolved.ID != created.ID {
		t.Fatalf("session resolved id %q, registered %q", resolved.ID, created.ID)
	}
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	svc, _ := newTestService(t)

	register(t, svc, "ann@test.com", "Passw0rd")

	_, _, wrongPass := svc.Login(context.Background(), "ann@test.com", "wrong-pass")
	_, _, unknown := svc.Login(context.Background(), "ghost@test.com", "anything")

	if wrongPass != domain.ErrInvalidCredentials || unknown != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestCurrentUser_InvalidTokens(t *testing.T) {
	svc, _ := newTestService(t)

	for _, tok := range []string{"", "not-a-token"} {
		if _, err := svc.CurrentUser(context.Background(), tok); err != domain.ErrInvalidSession {
			t.Fatalf("expected ErrInvalidSession for %q, got %v", tok, err)
		}
	}
}

func TestCurrentUser_TokenSignedWithOtherSecret(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "ann@test.com", "Passw0rd")

	otherCodec, _ := token.NewCodec("other-secret")
	otherSvc := NewAuthService(newStubDirectory(), otherCodec)
	_, forged, err := otherSvc.Register(context.Background(), ports.RegisterInput{
		Email: "ann@test.com", Password: "Passw0rd", Name: "Ann", UserType: domain.TypeCustomer,
	})
	if err != nil {
		t.Fatalf("register against other service: %v", err)
	}

	if _, err := svc.CurrentUser(context.Background(), forged); err != domain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession for foreign-signed token, got %v", err)
	}
}

func TestCurrentUser_UserGoneAfterDirectoryReset(t *testing.T) {
	svc, dir := newTestService(t)

	created, tok := register(t, svc, "ann@test.com", "Passw0rd")

	// Simulate a process restart wiping the in-memory directory.
	delete(dir.users, created.ID)

	if _, err := svc.CurrentUser(context.Background(), tok); err != domain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession after directory reset, got %v", err)
	}
}

// The concrete end-to-end scenario: mixed-case registration, duplicate
// rejection, and a mixed-case login resolving to the same identity.
func TestRegisterLoginScenario(t *testing.T) {
	svc, _ := newTestService(t)

	first, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "A@Test.com", Password: "Passw0rd", Name: "Ann", UserType: domain.TypeCustomer,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.Email != "a@test.com" {
		t.Fatalf("expected a@test.com, got %q", first.Email)
	}

	_, _, err = svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@test.com", Password: "Passw0rd", Name: "Ann", UserType: domain.TypeCustomer,
	})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	user, _, err := svc.Login(context.Background(), "A@TEST.COM", "Passw0rd")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != first.ID {
		t.Fatalf("login id %q != registration id %q", user.ID, first.ID)
	}
}
