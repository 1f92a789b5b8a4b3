package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/akulikov/notehub/internal/errs"
	"github.com/akulikov/notehub/internal/model"
)

// NoteRepo implements NoteRepository using PostgreSQL. Every statement
// filters by owner_id, so cross-owner access surfaces as ErrNotFound.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

// Create inserts a new note row and reads back the DB-assigned timestamps.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	const q = `
INSERT INTO notes (id, owner_id, title, body)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q, n.ID, n.OwnerID, n.Title, n.Body).
		Scan(&n.CreatedAt, &n.UpdatedAt)
}

// List returns the owner's notes ordered by creation time, newest first.
// A non-empty search narrows the result to notes whose title or body
// contains it, case-insensitively; skip/limit window the ordered result.
func (r *NoteRepo) List(ctx context.Context, ownerID uuid.UUID, f model.NoteFilter) ([]model.Note, error) {
	qb := sq.Select("id", "owner_id", "title", "body", "created_at", "updated_at").
		From("notes").
		Where(sq.Eq{"owner_id": ownerID}).
		PlaceholderFormat(sq.Dollar)
	if f.Search != "" {
		pat := "%" + f.Search + "%"
		qb = qb.Where(sq.Or{sq.ILike{"title": pat}, sq.ILike{"body": pat}})
	}
	qb = qb.OrderBy("created_at DESC")
	if f.Limit > 0 {
		qb = qb.Limit(f.Limit)
	}
	if f.Skip > 0 {
		qb = qb.Offset(f.Skip)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err = rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Get returns a single note owned by ownerID.
func (r *NoteRepo) Get(ctx context.Context, ownerID, noteID uuid.UUID) (*model.Note, error) {
	const q = `
SELECT id, owner_id, title, body, created_at, updated_at
FROM notes WHERE id=$1 AND owner_id=$2`
	return r.scanNote(r.db.Pool.QueryRow(ctx, q, noteID, ownerID))
}

// Update applies a partial patch (nil fields keep their value) and always
// refreshes updated_at. Last write wins; no version check.
func (r *NoteRepo) Update(ctx context.Context, ownerID, noteID uuid.UUID, patch model.NotePatch) (*model.Note, error) {
	const q = `
UPDATE notes
SET title = COALESCE($3, title), body = COALESCE($4, body), updated_at = now()
WHERE id=$1 AND owner_id=$2
RETURNING id, owner_id, title, body, created_at, updated_at`
	return r.scanNote(r.db.Pool.QueryRow(ctx, q, noteID, ownerID, patch.Title, patch.Body))
}

// Delete removes the note row; absent or foreign rows report ErrNotFound.
func (r *NoteRepo) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id=$1 AND owner_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, noteID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) scanNote(row pgx.Row) (*model.Note, error) {
	var n model.Note
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}
