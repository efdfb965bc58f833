package repository

import (
	"context"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups by email and username expect already-normalised values.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetBySlug(ctx context.Context, slug string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateSlug(ctx context.Context, id, slug string) error
}
