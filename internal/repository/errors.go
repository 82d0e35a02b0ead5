package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects the write
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound is returned by updates and deletes that matched no row
	ErrNotFound = errors.New("not found")
	// ErrReferenced is returned when a row is still referenced by a foreign key
	ErrReferenced = errors.New("row is referenced")
)

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrReferenced
		}
	}
	return err
}
