package errors

import (
	"errors"
	"fmt"
)

// Failure categories surfaced by the gateway. The boundary layer maps these
// to HTTP statuses; nothing below it swallows them.
var (
	// Session errors
	ErrUnauthorized = errors.New("no valid session")

	// Resource errors
	ErrNotFound = errors.New("not found")

	// Upstream errors
	ErrUpstreamAuth    = errors.New("upstream token exchange failed")
	ErrUpstreamHTTP    = errors.New("upstream request failed")
	ErrDeserialization = errors.New("unexpected upstream response body")
)

// StatusError records the status code of a failed upstream call. It matches
// ErrUpstreamHTTP in errors.Is chains.
type StatusError struct {
	Operation string
	Status    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d", e.Operation, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamHTTP
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
