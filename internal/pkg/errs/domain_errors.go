package errs

import (
	"errors"
	"fmt"
)

// Booking engine error taxonomy. Every error returned to a caller matches exactly one of these.
var (
	ErrUnauthorized          = errors.New("actor is not permitted to perform this action")
	ErrSeatConflict          = errors.New("seat conflict")
	ErrInvalidTransition     = errors.New("invalid booking transition")
	ErrHoldExpiredOrMismatch = errors.New("seat hold expired or not held by this booking")
	ErrAlreadyDecided        = errors.New("payment already decided")
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("not found")

	// Operation errors
	ErrConcurrentModification  = errors.New("concurrent modification")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

type ValidationError struct {
	Field string
	Msg   string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
