package errors

import (
	goErrors "errors"
)

// New returns an error with the given message. It's a drop-in replacement
// for the standard library's errors.New so that callers only have to import
// one errors package.
func New(msg string) error {
	return goErrors.New(msg)
}

// ContextError annotates an error with the operation that was in progress
// when the error occurred.
type ContextError struct {
	Context string
	Err     error
}

func (err ContextError) Error() string {
	return err.Context + ": " + err.Err.Error()
}

// Unwrap returns the wrapped error.
func (err ContextError) Unwrap() error {
	return err.Err
}

// WithContext wraps `err` with a message describing the operation that
// failed. The result reads like a call stack when printed:
// "parse config: read file: open /foo: no such file or directory".
func WithContext(err error, context string) error {
	return ContextError{Context: context, Err: err}
}

// RootCause unwraps `err` until it finds the original error that triggered
// the failure. This is useful for checking whether an error is an instance
// of a known type, such as FileNotFound.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(ContextError)
		if !ok {
			return err
		}
		err = ctxErr.Err
	}
}
