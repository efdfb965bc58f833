package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	"github.com/oksasatya/bookshelf/internal/domain/repository"
)

const noteColumns = `id::text, user_id::text, book_id::text, content, is_public, created_at, updated_at`

type NoteRepository struct {
	pool PgxPool
}

func NewNoteRepository(pool PgxPool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	n := &entity.Note{}
	if err := row.Scan(&n.ID, &n.UserID, &n.BookID, &n.Content, &n.IsPublic, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notes (id, user_id, book_id, content, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, n.ID, n.UserID, n.BookID, n.Content, n.IsPublic)
	if err := row.Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
		return oops.Code("NOTE_CREATE_FAILED").With("book_id", n.BookID).Wrap(err)
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, userID, id string) (*entity.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, oops.Code("NOTE_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	row := r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	n, err := scanNote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("NOTE_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("NOTE_GET_FAILED").With("id", id).Wrap(err)
	}
	return n, nil
}

// ListByUser returns notes most recently updated first, optionally for one book.
func (r *NoteRepository) ListByUser(ctx context.Context, userID, bookID string, publicOnly bool) ([]entity.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE user_id = $1 AND ($2 = '' OR book_id::text = $2) AND ($3 = false OR is_public)
		ORDER BY updated_at DESC
	`, userID, bookID, publicOnly)
	if err != nil {
		return nil, oops.Code("NOTE_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	out := make([]entity.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, oops.Code("NOTE_LIST_FAILED").With("user_id", userID).Wrap(err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("NOTE_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return out, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE notes SET content = $3, is_public = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`, n.ID, n.UserID, n.Content, n.IsPublic)
	err := row.Scan(&n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("NOTE_NOT_FOUND").With("id", n.ID).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return oops.Code("NOTE_UPDATE_FAILED").With("id", n.ID).Wrap(err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return oops.Code("NOTE_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return oops.Code("NOTE_DELETE_FAILED").With("id", id).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("NOTE_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	return nil
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
