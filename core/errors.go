package core

import "github.com/pkg/errors"

// FieldError pins an error message to a specific struct field, using the
// field's JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field errors raised outside struct validation,
// e.g. uniqueness checks or tenancy rules enforced by a service.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

// NewShutdownError flags an error as unrecoverable; the API error handler
// signals a graceful shutdown when it sees one.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
