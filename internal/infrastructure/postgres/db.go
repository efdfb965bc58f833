package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/bookshelf/internal/domain/repository"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var constraintFields = map[string]string{
	"users_email_key":        "email",
	"users_username_key":     "username",
	"users_profile_slug_key": "profile_slug",
}

// asDuplicate converts a unique violation into *repository.DuplicateError; other errors pass through.
func asDuplicate(err error) error {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) || pg.Code != pgerrcode.UniqueViolation {
		return err
	}
	field, ok := constraintFields[pg.ConstraintName]
	if !ok {
		field = pg.ConstraintName
	}
	return &repository.DuplicateError{Field: field}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
