package repository

import (
	"context"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
)

// BookRepository scopes every query by owner; a book owned by someone else is ErrNotFound.
type BookRepository interface {
	Create(ctx context.Context, b *entity.Book) error
	GetByID(ctx context.Context, userID, id string) (*entity.Book, error)
	ListByUser(ctx context.Context, userID string, publicOnly bool) ([]entity.Book, error)
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, userID, id string) error
}

// NoteRepository scopes every query by owner.
type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	GetByID(ctx context.Context, userID, id string) (*entity.Note, error)
	ListByUser(ctx context.Context, userID, bookID string, publicOnly bool) ([]entity.Note, error)
	Update(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, userID, id string) error
}
