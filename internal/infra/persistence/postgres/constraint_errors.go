package postgres

import (
	"database/sql"
	"database/sql/driver"
	"strings"

	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"

	"gorm.io/gorm"
)

// Helper functions for constraint error checking
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Drivers without error translation only expose the message.
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "23505") // PostgreSQL unique_violation error code
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "database is closed") ||
		strings.Contains(errMsg, "08006") // PostgreSQL connection_failure error code
}

// translateReadError wraps a failed read, marking connectivity failures.
// An expired deadline stays a timeout, not an outage.
func translateReadError(err error, message string) error {
	if !errors.IsTimeout(err) && isConnectionError(err) {
		return errors.Wrapf(repository.ErrUnavailable, "%s: %v", message, err)
	}

	return errors.Wrap(err, message)
}

// translateWriteError maps a failed write to the domain error callers match on.
func translateWriteError(err error, message string) error {
	switch {
	case errors.IsTimeout(err):
		return errors.Wrap(err, message)
	case isConnectionError(err):
		return errors.Wrapf(repository.ErrUnavailable, "%s: %v", message, err)
	case isUniqueConstraintViolation(err):
		return domainerrors.ErrConflict.WrapMessage(message + ": " + err.Error())
	case isNotNullConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WrapMessage(message + ": " + err.Error())
	}

	return domainerrors.NewDatabaseExecuteError(err, message)
}
