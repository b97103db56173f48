package services

import (
	"errors"
	"fmt"
)

// ValidationError reports missing, malformed or out-of-range input.
// It is returned before any store access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a card id that is not part of the collection
type NotFoundError struct {
	CardID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card %d not found", e.CardID)
}

// StoreError wraps a backing store failure or a malformed stored value
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStore reports whether err is a StoreError
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
