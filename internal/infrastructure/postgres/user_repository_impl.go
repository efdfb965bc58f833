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

const userColumns = `id::text, name, username, email, password_hash, profile_slug, created_at, updated_at`

type UserRepository struct {
	pool PgxPool
}

func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.ProfileSlug, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts u, assigning a new id when empty. Unique collisions return *repository.DuplicateError.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, username, email, password_hash, profile_slug)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.ProfileSlug)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(asDuplicate(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.one(row, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return r.one(row, "email", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return r.one(row, "username", username)
}

func (r *UserRepository) GetBySlug(ctx context.Context, slug string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE profile_slug = $1`, slug)
	return r.one(row, "profile_slug", slug)
}

func (r *UserRepository) one(row pgx.Row, key, value string) (*entity.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With(key, value).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("lookup", key).Wrap(err)
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.set(ctx, "password_hash", id, hash)
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.set(ctx, "email", id, email)
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	return r.set(ctx, "username", id, username)
}

func (r *UserRepository) UpdateSlug(ctx context.Context, id, slug string) error {
	return r.set(ctx, "profile_slug", id, slug)
}

// set writes a single column; column is always one of the constants above.
func (r *UserRepository) set(ctx context.Context, column, id, value string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET `+column+` = $2, updated_at = now() WHERE id = $1`, id, value)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			With("column", column).
			With("id", id).
			Wrap(asDuplicate(err))
	}
	if res.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
