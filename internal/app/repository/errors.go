package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sifan077/linkpulse/internal/errx"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("short URL not found")
	// ErrCodeTaken signals that another link already uses the short code.
	ErrCodeTaken = errors.New("short code already in use")
)

const uniqueViolation = "23505"

func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errx.E(op, errx.NotFound, ErrLinkNotFound)
	case isUniqueViolation(err):
		return errx.E(op, errx.Conflict, ErrCodeTaken)
	default:
		return errx.E(op, errx.Store, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
