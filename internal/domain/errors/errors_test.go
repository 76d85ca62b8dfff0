package errors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	err := ErrSourceUnavailable.WithDetails("postgres: connection refused")

	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.False(t, errors.Is(err, ErrTargetUnavailable))
	assert.Equal(t, "postgres: connection refused", err.Details())
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPCode())
}

func TestBaseError_WrapMessage(t *testing.T) {
	err := ErrRecordMapping.WrapMessage("review r1")

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RECORD_MAPPING_FAILED", appErr.ErrorCode())
	assert.True(t, errors.Is(err, ErrRecordMapping))
}

func TestDatabaseExecuteError(t *testing.T) {
	err := NewDatabaseExecuteError(errors.New("boom"), "failed to save review")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Contains(t, err.Error(), "boom")
}
