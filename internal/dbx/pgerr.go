package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports when an insert or
// update breaks a UNIQUE constraint.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Repositories use it to turn driver errors into domain
// conflicts (duplicate email, taken workspace slug) instead of leaking
// SQLSTATE strings upward.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
