// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/akulikov/notehub/internal/model"
)

// UserRepository is the durable record of user identities.
type UserRepository interface {
	// Create inserts a new user. Uniqueness of username and email is
	// enforced by the storage engine; a duplicate fails with ConflictError.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByLogin loads a user whose username or email equals identifier.
	GetByLogin(ctx context.Context, identifier string) (*model.User, error)
}
