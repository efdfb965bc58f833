package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	"github.com/oksasatya/bookshelf/internal/domain/repository"
)

var noteCols = []string{"id", "user_id", "book_id", "content", "is_public", "created_at", "updated_at"}

func TestNoteRepo_ListByUser_FilterByBook(t *testing.T) {
	mock := newMock(t)
	r := NewNoteRepository(mock)
	uid, bid := uuid.NewString(), uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`FROM notes\s+WHERE user_id = \$1 AND \(\$2 = '' OR book_id::text = \$2\)`).
		WithArgs(uid, bid, false).
		WillReturnRows(pgxmock.NewRows(noteCols).
			AddRow(uuid.NewString(), uid, bid, "loved chapter 3", false, now, now))

	notes, err := r.ListByUser(context.Background(), uid, bid, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, bid, notes[0].BookID)
}

func TestNoteRepo_Update(t *testing.T) {
	mock := newMock(t)
	r := NewNoteRepository(mock)
	n := &entity.Note{ID: uuid.NewString(), UserID: uuid.NewString(), Content: "edited", IsPublic: true}
	later := time.Now().Add(time.Minute)

	mock.ExpectQuery(`UPDATE notes SET content = \$3, is_public = \$4, updated_at = now\(\)`).
		WithArgs(n.ID, n.UserID, "edited", true).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(later))
	require.NoError(t, r.Update(context.Background(), n))
	require.Equal(t, later, n.UpdatedAt)

	mock.ExpectQuery(`UPDATE notes`).
		WithArgs(n.ID, n.UserID, "edited", true).
		WillReturnError(pgx.ErrNoRows)
	require.ErrorIs(t, r.Update(context.Background(), n), repository.ErrNotFound)
}

func TestNoteRepo_Delete_MalformedID(t *testing.T) {
	r := NewNoteRepository(newMock(t))
	require.ErrorIs(t, r.Delete(context.Background(), uuid.NewString(), "nope"), repository.ErrNotFound)
}
