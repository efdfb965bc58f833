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

const bookColumns = `id::text, user_id::text, google_id, title, authors, thumbnail, categories, status,
	start_date, end_date, rating, tags, notes, is_public, created_at`

type BookRepository struct {
	pool PgxPool
}

func NewBookRepository(pool PgxPool) *BookRepository {
	return &BookRepository{pool: pool}
}

func scanBook(row pgx.Row) (*entity.Book, error) {
	b := &entity.Book{}
	var status string
	err := row.Scan(&b.ID, &b.UserID, &b.GoogleID, &b.Title, &b.Authors, &b.Thumbnail, &b.Categories, &status,
		&b.StartDate, &b.EndDate, &b.Rating, &b.Tags, &b.Notes, &b.IsPublic, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = entity.BookStatus(status)
	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, b *entity.Book) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (id, user_id, google_id, title, authors, thumbnail, categories, status,
		                   start_date, end_date, rating, tags, notes, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`, b.ID, b.UserID, b.GoogleID, b.Title, nonNil(b.Authors), b.Thumbnail, nonNil(b.Categories), string(b.Status),
		b.StartDate, b.EndDate, b.Rating, nonNil(b.Tags), b.Notes, b.IsPublic)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return oops.Code("BOOK_CREATE_FAILED").With("user_id", b.UserID).Wrap(err)
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, userID, id string) (*entity.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, oops.Code("BOOK_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	row := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 AND user_id = $2`, id, userID)
	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("BOOK_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("BOOK_GET_FAILED").With("id", id).Wrap(err)
	}
	return b, nil
}

// ListByUser returns the user's books newest first; publicOnly restricts to published ones.
func (r *BookRepository) ListByUser(ctx context.Context, userID string, publicOnly bool) ([]entity.Book, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE user_id = $1 AND ($2 = false OR is_public)
		ORDER BY created_at DESC
	`, userID, publicOnly)
	if err != nil {
		return nil, oops.Code("BOOK_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	out := make([]entity.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, oops.Code("BOOK_LIST_FAILED").With("user_id", userID).Wrap(err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("BOOK_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return out, nil
}

func (r *BookRepository) Update(ctx context.Context, b *entity.Book) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE books
		SET title = $3, authors = $4, thumbnail = $5, categories = $6, status = $7,
		    start_date = $8, end_date = $9, rating = $10, tags = $11, notes = $12, is_public = $13
		WHERE id = $1 AND user_id = $2
	`, b.ID, b.UserID, b.Title, nonNil(b.Authors), b.Thumbnail, nonNil(b.Categories), string(b.Status),
		b.StartDate, b.EndDate, b.Rating, nonNil(b.Tags), b.Notes, b.IsPublic)
	if err != nil {
		return oops.Code("BOOK_UPDATE_FAILED").With("id", b.ID).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("BOOK_NOT_FOUND").With("id", b.ID).Wrap(repository.ErrNotFound)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return oops.Code("BOOK_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return oops.Code("BOOK_DELETE_FAILED").With("id", id).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("BOOK_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	return nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
