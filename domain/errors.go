package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid wraps a sentinel with call-site detail while keeping errors.Is matches.
func Invalid(sentinel error, detail string) error {
	return fmt.Errorf("%w: %s", sentinel, detail)
}

// Common domain errors.
var (
	ErrTaskNotFound     = NewError(ErrCodeNotFound, "task not found")
	ErrSubtaskNotFound  = NewError(ErrCodeNotFound, "subtask not found")
	ErrRoutineNotFound  = NewError(ErrCodeNotFound, "routine not found")
	ErrPresetNotFound   = NewError(ErrCodeNotFound, "shift preset not found")
	ErrTemplateNotFound = NewError(ErrCodeNotFound, "template not found")
	ErrPatternNotFound  = NewError(ErrCodeNotFound, "pattern not found")

	ErrEmptyName            = NewError(ErrCodeInvalid, "name must not be empty")
	ErrInvalidClock         = NewError(ErrCodeInvalid, "time of day must be HH:MM")
	ErrInvalidDate          = NewError(ErrCodeInvalid, "date must be YYYY-MM-DD")
	ErrInvalidDuration      = NewError(ErrCodeInvalid, "duration must be a non-negative number of minutes")
	ErrInvalidPattern       = NewError(ErrCodeInvalid, "unknown recurrence pattern")
	ErrInvalidPriority      = NewError(ErrCodeInvalid, "unknown priority")
	ErrInvalidPeriod        = NewError(ErrCodeInvalid, "period must be today, week or month")
	ErrSubtaskDepthExceeded = NewError(ErrCodeInvalid, "subtask depth limit exceeded")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")

	ErrShiftLimitReached = NewError(ErrCodeConflict, "shift limit per day reached")
	ErrDuplicateExclude  = NewError(ErrCodeConflict, "date already excluded")

	ErrUnauthorized = NewError(ErrCodeUnauthorized, "unauthorized")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
