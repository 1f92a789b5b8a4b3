// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. The secret is stored hashed, never in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique, case-sensitive
	Email     string    // unique
	PwdHash   string    // argon2id encoded hash (salt included)
	CreatedAt time.Time
}

// Note is a single record bound to exactly one owner. Ownership never transfers.
type Note struct {
	ID        uuid.UUID // PK
	OwnerID   uuid.UUID // FK -> users.id, immutable
	Title     string    // non-empty
	Body      string    // may be empty
	CreatedAt time.Time
	UpdatedAt time.Time // maintained by repo on update
}

// NoteFilter narrows a note listing. Search is a case-insensitive substring
// over title and body; Skip and Limit window the ordered result (Limit 0
// means no limit).
type NoteFilter struct {
	Search string
	Skip   uint64
	Limit  uint64
}

// NotePatch is a partial note update; nil fields are left untouched.
type NotePatch struct {
	Title *string
	Body  *string
}

// Session is an issued bearer token with its expiry (for diagnostics and responses).
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
}
