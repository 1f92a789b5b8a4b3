package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"github.com/akulikov/notehub/internal/errs"
	"github.com/akulikov/notehub/internal/model"
	"github.com/akulikov/notehub/internal/repository"
)

// maxTitleLen bounds note titles. Service policy, the schema stores TEXT.
const maxTitleLen = 128

// NoteService defines owner-scoped operations over notes. The owner ID is
// always supplied by the caller's resolved identity, never by the client.
type NoteService interface {
	// Create stores a new note for the owner.
	Create(ctx context.Context, ownerID uuid.UUID, title, body string) (*model.Note, error)
	// List returns a window of the owner's notes, newest first, optionally
	// filtered by search.
	List(ctx context.Context, ownerID uuid.UUID, f model.NoteFilter) ([]model.Note, error)
	// Get returns one of the owner's notes.
	Get(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error)
	// Update applies a partial patch to one of the owner's notes.
	Update(ctx context.Context, ownerID, noteID uuid.UUID, patch model.NotePatch) (*model.Note, error)
	// Delete removes one of the owner's notes.
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) error
}

type NoteServiceImpl struct {
	repo repository.NoteRepository
}

// NewNoteService constructs NoteService.
func NewNoteService(repo repository.NoteRepository) *NoteServiceImpl {
	return &NoteServiceImpl{repo: repo}
}

// Create validates the title and stores the note.
func (s *NoteServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, title, body string) (*model.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	n := &model.Note{ID: id, OwnerID: ownerID, Title: title, Body: body}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns the owner's notes; an owner with no matches gets an empty
// slice, not an error.
func (s *NoteServiceImpl) List(ctx context.Context, ownerID uuid.UUID, f model.NoteFilter) ([]model.Note, error) {
	return s.repo.List(ctx, ownerID, f)
}

// Get fetches a single note scoped to the owner.
func (s *NoteServiceImpl) Get(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error) {
	return s.repo.Get(ctx, ownerID, noteID)
}

// Update validates the patch and applies it. An empty patch still bumps the
// modification time.
func (s *NoteServiceImpl) Update(ctx context.Context, ownerID, noteID uuid.UUID, patch model.NotePatch) (*model.Note, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, ownerID, noteID, patch)
}

// Delete removes the note; repeated deletes report ErrNotFound.
func (s *NoteServiceImpl) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, noteID)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.Validation("title must not be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return errs.Validation("title must be at most %d characters", maxTitleLen)
	}
	return nil
}
