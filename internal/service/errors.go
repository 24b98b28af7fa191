package service

import (
	"errors"
	"strings"
)

var (
	// ErrEventNotFound indicates the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrAlreadyRegistered is returned when the user already holds a registration for the event.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrNotRegistered is returned when cancelling a registration that does not exist.
	ErrNotRegistered = errors.New("not registered")
	// ErrEventFull is returned when the event reached its participant limit.
	ErrEventFull = errors.New("event is full")
	// ErrStorageDisabled is returned by roster exports when no bucket is configured.
	ErrStorageDisabled = errors.New("storage not configured")
)

// ValidationError reports invalid or missing input fields.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
