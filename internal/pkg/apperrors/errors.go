package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Resource errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrExamNotFound       = errors.New("exam not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrUserNotFound       = errors.New("user not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// Enrollment errors
var (
	// ErrDuplicateEnrollment means an active enrollment already exists for
	// the (student, course) pair. Terminal: the desired end state is already
	// in place, so retrying only rediscovers the same conflict.
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")
	ErrCourseUnavailable   = errors.New("course is not available for enrollment")
	ErrEnrollmentDropped   = errors.New("enrollment has been dropped")
)

// Exam submission errors
var (
	ErrNotEnrolled          = errors.New("student is not enrolled in the exam's course")
	ErrExamUnavailable      = errors.New("exam is not published")
	ErrExamNotOpen          = errors.New("exam has not opened yet")
	ErrExamExpired          = errors.New("exam submission window has closed")
	ErrAttemptLimitExceeded = errors.New("maximum number of exam attempts reached")
)

// TransientConflictError reports that the store detected a concurrent write
// conflict on the same data. A unit of work failing with it is safe to redo
// from scratch; every other error is terminal.
type TransientConflictError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *TransientConflictError) Error() string {
	return fmt.Sprintf("transient conflict during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error
func (e *TransientConflictError) Unwrap() error {
	return e.Err
}

// IsTransient marks the error as safe to retry
func (e *TransientConflictError) IsTransient() bool {
	return true
}

// NewTransientConflict wraps a store error as a retryable conflict
func NewTransientConflict(op string, err error) error {
	return &TransientConflictError{Op: op, Err: err}
}

// IsTransient reports whether err, or any error it wraps, carries the
// transient-conflict capability. Classification happens once at the
// store-adapter boundary; this is the only check the retry policy consults.
func IsTransient(err error) bool {
	var t interface{ IsTransient() bool }
	return errors.As(err, &t) && t.IsTransient()
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
