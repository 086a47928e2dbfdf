package errors

import (
	"fmt"
)

// FriendlyError is an error with a message meant to be shown directly to
// the user. Friendly errors are printed as-is by the CLI's fatal error
// handler rather than with the generic "unexpected error" preamble.
type FriendlyError struct {
	Message string
}

func (err FriendlyError) Error() string {
	return err.Message
}

// FriendlyMessage returns the user-facing message.
func (err FriendlyError) FriendlyMessage() string {
	return err.Message
}

// NewFriendlyError creates an error with a message that's safe to show
// directly to the user. It supports Printf-style formatting.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{Message: fmt.Sprintf(format, args...)}
}

// Friendlier is implemented by errors that can produce a user-facing
// message. The fatal error handler prefers this message when available.
type Friendlier interface {
	FriendlyMessage() string
}
