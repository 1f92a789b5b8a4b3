package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/akulikov/notehub/internal/errs"
	"github.com/akulikov/notehub/internal/model"
	"github.com/akulikov/notehub/internal/repository"
	"github.com/akulikov/notehub/internal/token"
)

type fakeUsers struct {
	byID map[uuid.UUID]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return &errs.ConflictError{Field: "username"}
		}
		if existing.Email == u.Email {
			return &errs.ConflictError{Field: "email"}
		}
	}
	cpy := *u
	cpy.CreatedAt = time.Now()
	f.byID[u.ID] = &cpy
	u.CreatedAt = cpy.CreatedAt
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, identifier string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == identifier || u.Email == identifier {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func newAuth(users repository.UserRepository) *AuthServiceImpl {
	return NewAuthService(users, token.New([]byte("test-key"), time.Minute))
}

func TestAuth_Register_Validation(t *testing.T) {
	t.Parallel()
	s := newAuth(newFakeUsers())
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"short username", "ab", "a@example.com", "secret-123"},
		{"long username", "qwertyuiopasdfghjklzxcvbnm0123456", "a@example.com", "secret-123"},
		{"bad email", "alice", "not-an-email", "secret-123"},
		{"short password", "alice", "a@example.com", "short"},
		{"empty password", "alice", "a@example.com", ""},
	}
	for _, tc := range cases {
		_, _, err := s.Register(ctx, tc.username, tc.email, tc.password)
		var verr *errs.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: want ValidationError, got %v", tc.name, err)
		}
	}
}

func TestAuth_Register_TokenResolvesToCreatedUser(t *testing.T) {
	t.Parallel()
	s := newAuth(newFakeUsers())
	ctx := context.Background()

	u, sess, err := s.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PwdHash == "secret123" || u.PwdHash == "" {
		t.Fatalf("plaintext leaked or hash missing: %q", u.PwdHash)
	}
	if sess.AccessToken == "" || !sess.ExpiresAt.After(time.Now()) {
		t.Fatalf("bad session: %+v", sess)
	}

	got, err := s.ResolveIdentity(ctx, sess.AccessToken)
	if err != nil {
		t.Fatalf("ResolveIdentity: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("resolved wrong user: %+v", got)
	}
}

func TestAuth_Register_DuplicateReportsField(t *testing.T) {
	t.Parallel()
	s := newAuth(newFakeUsers())
	ctx := context.Background()

	if _, _, err := s.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := s.Register(ctx, "alice", "other@example.com", "secret123")
	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "username" {
		t.Fatalf("want ConflictError{username}, got %v", err)
	}

	_, _, err = s.Register(ctx, "alice2", "alice@example.com", "secret123")
	if !errors.As(err, &conflict) || conflict.Field != "email" {
		t.Fatalf("want ConflictError{email}, got %v", err)
	}
}

func TestAuth_Login_GenericUnauthorized(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := newAuth(users)
	ctx := context.Background()

	if _, _, err := s.Register(ctx, "alice", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown user and wrong password must be indistinguishable.
	if _, err := s.Login(ctx, "nobody", "secret123"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("unknown user: want ErrUnauthorized, got %v", err)
	}
	if _, err := s.Login(ctx, "alice", "wrongpw"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("wrong password: want ErrUnauthorized, got %v", err)
	}

	// Lookup errors are masked too.
	users.getErr = errors.New("db down")
	if _, err := s.Login(ctx, "alice", "secret123"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("lookup error: want ErrUnauthorized, got %v", err)
	}
	users.getErr = nil
}

func TestAuth_Login_ByUsernameOrEmail(t *testing.T) {
	t.Parallel()
	s := newAuth(newFakeUsers())
	ctx := context.Background()

	u, _, err := s.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, identifier := range []string{"alice", "alice@example.com"} {
		sess, err := s.Login(ctx, identifier, "secret123")
		if err != nil {
			t.Fatalf("Login(%q): %v", identifier, err)
		}
		got, err := s.ResolveIdentity(ctx, sess.AccessToken)
		if err != nil {
			t.Fatalf("ResolveIdentity: %v", err)
		}
		if got.ID != u.ID {
			t.Fatalf("session resolves to %s, want %s", got.ID, u.ID)
		}
	}
}

func TestAuth_ResolveIdentity_Failures(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := newAuth(users)
	ctx := context.Background()

	if _, err := s.ResolveIdentity(ctx, "garbage"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("garbage token: want ErrUnauthorized, got %v", err)
	}

	u, sess, err := s.Register(ctx, "bob", "bob@example.com", "secret456")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A valid token whose subject no longer exists is unauthorized.
	delete(users.byID, u.ID)
	if _, err := s.ResolveIdentity(ctx, sess.AccessToken); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("deleted user: want ErrUnauthorized, got %v", err)
	}

	// A token signed with another key never resolves.
	other := NewAuthService(users, token.New([]byte("other-key"), time.Minute))
	if _, err := other.ResolveIdentity(ctx, sess.AccessToken); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("foreign key token: want ErrUnauthorized, got %v", err)
	}
}
