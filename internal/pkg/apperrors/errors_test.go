package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	conflict := NewTransientConflict("insert enrollment", errors.New("serialization failure"))

	assert.True(t, IsTransient(conflict))
	assert.True(t, IsTransient(fmt.Errorf("enroll: %w", conflict)), "wrapping must not hide the capability")

	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(ErrDuplicateEnrollment))
	assert.False(t, IsTransient(errors.New("plain failure")))
	assert.False(t, IsTransient(NewValidationError("bad input")))
}

func TestTransientConflictUnwrap(t *testing.T) {
	cause := errors.New("deadlock detected")
	conflict := NewTransientConflict("update counter", cause)

	assert.ErrorIs(t, conflict, cause)
	assert.Contains(t, conflict.Error(), "update counter")
}

func TestCustomErrorWrapsSentinels(t *testing.T) {
	assert.ErrorIs(t, NewValidationError("missing field"), ErrValidationFailed)
	assert.ErrorIs(t, NewBadRequestError("malformed body"), ErrBadRequest)
	assert.ErrorIs(t, NewForbiddenError("not yours"), ErrPermissionDenied)
}

func TestCustomErrorMessage(t *testing.T) {
	err := NewValidationError("student identifier is required")
	assert.Equal(t, "student identifier is required", err.Error())

	bare := &CustomError{Err: ErrBadRequest}
	assert.Equal(t, ErrBadRequest.Error(), bare.Error())
}
