package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store error")
)

// Error carries a client-facing message, its kind and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// CategoryInUseError is returned when deleting a category that tasks still reference.
type CategoryInUseError struct {
	TaskCount int64
}

func (e *CategoryInUseError) Error() string {
	return "Cannot delete category that is being used by tasks"
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrConflict }

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// storeError wraps a persistence failure. Record-not-found and duplicate key
// errors coming out of the store are mapped to their own kinds.
func storeError(msg string, err error) error {
	var svcErr *Error
	var inUse *CategoryInUseError
	if errors.As(err, &svcErr) || errors.As(err, &inUse) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: ErrNotFound, Message: msg, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: ErrConflict, Message: msg, Err: err}
	}
	return &Error{Kind: ErrStore, Message: msg, Err: err}
}
