package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// psql constructor de SQL con placeholders $1, $2...
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// isSerializationFailure 40001: conflicto de serialización; la tx puede repetirse completa.
func isSerializationFailure(err error) bool {
	return hasCode(err, codeSerializationFailure)
}

// isDeadlock 40P01: dos tx tomaron filas en distinto orden; PostgreSQL abortó una de ellas.
func isDeadlock(err error) bool {
	return hasCode(err, codeDeadlockDetected)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
