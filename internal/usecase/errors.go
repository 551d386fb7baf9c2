package usecase

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfConnection   = errors.New("cannot connect to self")
	ErrConnectionExists = errors.New("connection already exists")
	ErrSkillNotFound    = errors.New("skill not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInternal         = errors.New("internal error")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
