package postgres

import (
	"errors"

	"github.com/lib/pq"
)

var ErrInvalidUUID = errors.New("invalid UUID format")

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
