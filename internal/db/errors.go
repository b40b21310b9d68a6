package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates the referenced row is absent or logically deleted
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail indicates a unique-constraint violation on email.
	// The constraint itself decides races between concurrent signups.
	ErrDuplicateEmail = errors.New("email already registered")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
