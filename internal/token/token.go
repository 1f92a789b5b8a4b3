// Package token issues and verifies stateless HS256 session tokens.
//
// Tokens are self-contained claim sets {subject, issued-at, expires-at};
// nothing is stored server-side, which also means a token cannot be
// revoked before its natural expiry. Accepted limitation.
package token

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure reasons.
var (
	// ErrMalformed indicates the token cannot be parsed or carries a bad subject.
	ErrMalformed = errors.New("token malformed")
	// ErrBadSignature indicates the token was tampered with or signed by another key.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrExpired indicates the token's lifetime is over.
	ErrExpired = errors.New("token expired")
)

// Service signs and verifies session tokens. The signing key and TTL are
// immutable after construction; Verify is pure computation with no I/O.
type Service struct {
	signKey []byte
	ttl     time.Duration
	now     func() time.Time
}

// New constructs a Service with the given signing key and token lifetime.
func New(signKey []byte, ttl time.Duration) *Service {
	return &Service{signKey: signKey, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the given subject, valid for the
// configured lifetime starting now.
func (s *Service) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Verify checks the token's signature and lifetime and returns the embedded
// user ID. Failures are exactly one of ErrMalformed, ErrBadSignature, ErrExpired.
// A token is rejected from its expiry instant on (no leeway).
func (s *Service) Verify(tokenString string) (uuid.UUID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.signKey, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return uuid.Nil, ErrBadSignature
	default:
		return uuid.Nil, ErrMalformed
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrMalformed
	}
	return id, nil
}
