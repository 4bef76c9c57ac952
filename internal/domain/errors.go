package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError bad or missing input field before submission
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError record vanished between navigation and load
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ID)
}

// StoreError network or backend failure on a CRUD call
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IOError local file unreadable during image encode
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// PermissionError image library access denied
type PermissionError struct {
	Resource string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Resource)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NewNotFound(id string) error {
	return &NotFoundError{ID: id}
}

// WrapStore wraps a backend error, keeping taxonomy errors untouched
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsStore(err) {
		return err
	}
	return &StoreError{Op: op, Err: errors.WithStack(err)}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// AsValidation extracts the failing field of a validation error
func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}

func IsIO(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

func IsPermission(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}
