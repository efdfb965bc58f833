package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	"github.com/oksasatya/bookshelf/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var userCols = []string{"id", "name", "username", "email", "password_hash", "profile_slug", "created_at", "updated_at"}

func TestUserRepo_Create_OK(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(id, name, username, email, password_hash, profile_slug\)`).
		WithArgs(pgxmock.AnyArg(), "Ada", pgxmock.AnyArg(), "ada@example.com", "hash", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u := &entity.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, r.Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	require.Equal(t, now, u.CreatedAt)
}

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	err := r.Create(context.Background(), &entity.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrDuplicate)
	require.Equal(t, "email", repository.DuplicateField(err))
}

func TestUserRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	id := uuid.NewString()
	now := time.Now()
	username := "ada"

	mock.ExpectQuery(`SELECT id::text, name, username, email, password_hash, profile_slug, created_at, updated_at FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, "Ada", &username, "ada@example.com", "hash", (*string)(nil), now, now))

	u, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "ada", *u.Username)
	require.Nil(t, u.ProfileSlug)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(context.Background(), id)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_GetByID_MalformedID(t *testing.T) {
	r := NewUserRepository(newMock(t))
	_, err := r.GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)
	_, err := r.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_UpdateUsername(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	id := uuid.NewString()

	mock.ExpectExec(`UPDATE users SET username = \$2, updated_at = now\(\) WHERE id = \$1`).
		WithArgs(id, "reader").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateUsername(context.Background(), id, "reader"))

	mock.ExpectExec(`UPDATE users SET username = \$2`).
		WithArgs(id, "taken").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})
	err := r.UpdateUsername(context.Background(), id, "taken")
	require.ErrorIs(t, err, repository.ErrDuplicate)
	require.Equal(t, "username", repository.DuplicateField(err))

	mock.ExpectExec(`UPDATE users SET username = \$2`).
		WithArgs(id, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.UpdateUsername(context.Background(), id, "ghost"), repository.ErrNotFound)
}

func TestUserRepo_UpdateSlug_Duplicate(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	id := uuid.NewString()

	mock.ExpectExec(`UPDATE users SET profile_slug = \$2`).
		WithArgs(id, "shelf").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_profile_slug_key"})
	err := r.UpdateSlug(context.Background(), id, "shelf")
	require.Equal(t, "profile_slug", repository.DuplicateField(err))
}

func TestAsDuplicate_PassesOtherErrors(t *testing.T) {
	other := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	require.Same(t, other, asDuplicate(other))
}
