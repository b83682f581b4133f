package engine

import (
	"errors"
	"fmt"
)

// Error is a recoverable failure of an engine or service operation. The
// request boundary reports it to the caller; none of these are fatal.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ItemID identifies the affected item or classroom, 0 when not applicable.
	ItemID int64
}

// ErrorCode categorizes errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed input.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeAuthorization indicates the actor may not perform the mutation.
	ErrCodeAuthorization ErrorCode = "AUTHORIZATION"

	// ErrCodeAlreadyCompleted indicates a second completion on the same day.
	ErrCodeAlreadyCompleted ErrorCode = "ALREADY_COMPLETED"

	// ErrCodeNotFound indicates a referenced item or classroom is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ItemID != 0 {
		return fmt.Sprintf("%s: %s (id=%d)", e.Code, e.Message, e.ItemID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates an Error for malformed input.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewAuthorizationError creates an Error for a forbidden mutation.
func NewAuthorizationError(itemID int64, format string, args ...any) *Error {
	return &Error{Code: ErrCodeAuthorization, Message: fmt.Sprintf(format, args...), ItemID: itemID}
}

// NewAlreadyCompletedError creates an Error for a duplicate same-day completion.
func NewAlreadyCompletedError(itemID int64, day string) *Error {
	return &Error{
		Code:    ErrCodeAlreadyCompleted,
		Message: fmt.Sprintf("already completed on %s", day),
		ItemID:  itemID,
	}
}

// NewNotFoundError creates an Error for a missing record.
func NewNotFoundError(what string, id int64) *Error {
	return &Error{Code: ErrCodeNotFound, Message: what + " not found", ItemID: id}
}

// CodeOf returns the code of an engine error anywhere in err's chain, or ""
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsAuthorization returns true if err is an authorization error.
func IsAuthorization(err error) bool { return CodeOf(err) == ErrCodeAuthorization }

// IsAlreadyCompleted returns true if err is a duplicate completion error.
func IsAlreadyCompleted(err error) bool { return CodeOf(err) == ErrCodeAlreadyCompleted }

// IsNotFound returns true if err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }
