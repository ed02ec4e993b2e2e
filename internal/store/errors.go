package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/internreg/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = model.ErrNotFound

const uniqueViolation = "23505"

// querier is the subset of *pgxpool.Pool used by stores that need no
// transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation reports whether err is a unique-constraint failure,
// optionally restricted to the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func notFound(err error, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return err
}

var (
	ErrLastAdmin  = errors.New("cannot deactivate the last admin account")
	ErrEmailTaken = errors.New("a staff user with this email already exists")
)
