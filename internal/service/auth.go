// Package service contains application services for authentication and notes.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"github.com/akulikov/notehub/internal/crypto"
	"github.com/akulikov/notehub/internal/errs"
	"github.com/akulikov/notehub/internal/model"
	"github.com/akulikov/notehub/internal/repository"
	"github.com/akulikov/notehub/internal/token"
)

// Registration policy.
const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 8
)

// AuthService defines registration, login, and identity resolution.
type AuthService interface {
	// Register creates a new account and issues a session for it.
	Register(ctx context.Context, username, email, password string) (*model.User, model.Session, error)
	// Login authenticates by username or email and issues a session.
	Login(ctx context.Context, identifier, password string) (model.Session, error)
	// ResolveIdentity maps a bearer token back to an existing user.
	ResolveIdentity(ctx context.Context, tokenString string) (*model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Service
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Service) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

// Register validates the inputs, hashes the password, and creates the user.
// Duplicate username/email surfaces as ConflictError from the repository.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*model.User, model.Session, error) {
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, model.Session{}, errs.Validation("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, model.Session{}, errs.Validation("invalid email address")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, model.Session{}, errs.Validation("password must be at least %d characters", minPasswordLen)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, model.Session{}, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, model.Session{}, err
	}

	u := &model.User{
		ID:       uid,
		Username: username,
		Email:    email,
		PwdHash:  hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, model.Session{}, err
	}

	sess, err := s.issueSession(u.ID)
	if err != nil {
		return nil, model.Session{}, err
	}
	return u, sess, nil
}

// Login looks the user up by username or email and verifies the password.
// Unknown identifier and wrong password are deliberately the same error.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (model.Session, error) {
	u, err := s.users.GetByLogin(ctx, identifier)
	if err != nil || !crypto.VerifyPassword(password, u.PwdHash) {
		// lookup errors are masked so identifiers cannot be enumerated
		return model.Session{}, errs.ErrUnauthorized
	}
	return s.issueSession(u.ID)
}

// ResolveIdentity verifies the token and loads the embedded user. Every
// failure mode (bad token, expired, deleted user) collapses to unauthorized.
func (s *AuthServiceImpl) ResolveIdentity(ctx context.Context, tokenString string) (*model.User, error) {
	uid, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return u, nil
}

func (s *AuthServiceImpl) issueSession(userID uuid.UUID) (model.Session, error) {
	access, exp, err := s.tokens.Issue(userID)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{AccessToken: access, ExpiresAt: exp}, nil
}
