package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/akulikov/notehub/internal/model"
)

// NoteRepository provides owner-scoped access to notes. Every read and
// write filters by owner, so a foreign note is indistinguishable from a
// missing one.
type NoteRepository interface {
	// Create inserts a new note.
	Create(ctx context.Context, n *model.Note) error
	// List returns the owner's notes, newest first, narrowed by the filter's
	// search substring and windowed by its skip/limit.
	List(ctx context.Context, ownerID uuid.UUID, f model.NoteFilter) ([]model.Note, error)
	// Get returns a single note owned by ownerID.
	Get(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error)
	// Update applies a partial patch and refreshes the modification time.
	Update(ctx context.Context, ownerID, noteID uuid.UUID, patch model.NotePatch) (*model.Note, error)
	// Delete removes the note. Deleting an absent or foreign note is ErrNotFound.
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) error
}
