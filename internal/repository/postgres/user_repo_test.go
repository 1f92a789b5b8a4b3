package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/akulikov/notehub/internal/errs"
	"github.com/akulikov/notehub/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

const userCols = `SELECT id, username, email, pwd_hash, created_at FROM users`

func TestUserRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	u := &model.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "alice",
		Email:    "alice@example.com",
		PwdHash:  "$argon2id$...",
	}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(id, username, email, pwd_hash\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING created_at`).
		WithArgs(u.ID, u.Username, u.Email, u.PwdHash).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	require.NoError(t, r.Create(ctx, u))
	require.Equal(t, created, u.CreatedAt)
}

func TestUserRepo_Create_UniqueViolationNamesField(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Email: "alice@example.com", PwdHash: "h"}

	for constraint, field := range map[string]string{
		"users_username_key": "username",
		"users_email_key":    "email",
	} {
		mock.ExpectQuery(`INSERT INTO users \(id, username, email, pwd_hash\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING created_at`).
			WithArgs(u.ID, u.Username, u.Email, u.PwdHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraint})

		err := r.Create(ctx, u)
		var conflict *errs.ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Equal(t, field, conflict.Field)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(userCols+` WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "pwd_hash", "created_at"}).
			AddRow(id, "alice", "alice@example.com", "h", time.Now()))
	u, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, u.ID)

	mock.ExpectQuery(userCols+` WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_GetByLogin(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(userCols+` WHERE username=\$1 OR email=\$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "pwd_hash", "created_at"}).
			AddRow(id, "alice", "alice@example.com", "h", time.Now()))
	u, err := r.GetByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	mock.ExpectQuery(userCols+` WHERE username=\$1 OR email=\$1`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByLogin(ctx, "nobody")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
