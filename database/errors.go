package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrFeatureNotFound is returned by UpdateFeature when the row is gone.
	ErrFeatureNotFound = errors.New("feature not found")
	// ErrProjectNotFound is returned for missing projects and for feature
	// writes that reference one.
	ErrProjectNotFound = errors.New("project not found")
	// ErrStorage wraps every failure of the database itself.
	ErrStorage = errors.New("storage failure")
)

// mapPostgresError classifies err as a storage failure, keeping the original
// error in the chain and adding ErrProjectNotFound for foreign key violations.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %w: %s", ErrStorage, ErrProjectNotFound, pgErr.Detail)

	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: unique constraint violation: %s: %w", ErrStorage, pgErr.ConstraintName, err)

	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("%w: constraint violation: %s: %w", ErrStorage, pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("%w: transaction conflict (retryable): %w", ErrStorage, err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown:
		return fmt.Errorf("%w: database unavailable: %w", ErrStorage, err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("%w: query canceled: %w", ErrStorage, err)

	default:
		return fmt.Errorf("%w: postgres error [%s]: %s: %w", ErrStorage, pgErr.Code, pgErr.Message, err)
	}
}
