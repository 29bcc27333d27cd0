// Package pgerr translates PostgreSQL driver errors into the errors the application core
// understands.
package pgerr

import (
	"errors"
	"fmt"

	"partnerdelivery/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the adapters react to.
const (
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	UniqueViolation      = "23505"
)

// Translate maps serialization failures and deadlocks to ports.ErrTransactionConflict so
// the unit of work can be replayed. The driver error stays in the chain.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case SerializationFailure, DeadlockDetected:
			return fmt.Errorf("%w: %w", ports.ErrTransactionConflict, err)
		}
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation. With a non-empty
// constraint name only that constraint matches.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
