package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound is returned when a user, location or saved location does not exist.
	ErrNotFound = errors.New("not found")
	// ErrFutureRange is returned when a history range starts after today.
	ErrFutureRange = errors.New("cannot retrieve history for future dates")
	// ErrConflict is returned by stores when a uniqueness constraint rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable marks transport failures and open circuit breakers.
	ErrUnavailable = errors.New("upstream unavailable")
)

// kindError carries a human-readable message while still matching one of the
// sentinel errors above through errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NewError returns an error whose message is msg and which matches kind.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Errorf is NewError with formatting.
func Errorf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// UpstreamError is returned when a provider answers with a non-2xx status.
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status code %d", e.Provider, e.StatusCode)
}

// MalformedDataError is returned when a provider payload lacks a required field.
type MalformedDataError struct {
	Provider string
	Field    string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("%s response is missing required field %q", e.Provider, e.Field)
}
