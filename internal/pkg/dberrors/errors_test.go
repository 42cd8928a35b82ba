package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_enrollments_active"}

	assert.True(t, IsUniqueViolation(pgErr, "uq_enrollments_active"))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgErr), "uq_enrollments_active"))

	assert.False(t, IsUniqueViolation(pgErr, "users_email_key"), "constraint name must match")
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "uq_enrollments_active"))
	assert.False(t, IsUniqueViolation(errors.New("plain failure"), "uq_enrollments_active"))
	assert.False(t, IsUniqueViolation(nil, "uq_enrollments_active"))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40P01"}), "deadlocks are retryable too")
	assert.True(t, IsSerializationFailure(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})))

	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("plain failure")))
	assert.False(t, IsSerializationFailure(nil))
}
