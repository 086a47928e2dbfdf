package util

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/icesnap/icesnap/pkg/errors"
)

// HandleFatalError reports `err` and exits with a non-zero status. Friendly
// errors are printed as-is; anything else gets the generic unexpected-error
// treatment so that internal error chains don't leak into the UX unframed.
func HandleFatalError(err error) {
	if friendly, ok := errors.RootCause(err).(errors.Friendlier); ok {
		fmt.Fprintln(os.Stderr, friendly.FriendlyMessage())
	} else {
		log.WithError(err).Error("icesnap hit an unexpected error")
	}
	os.Exit(1)
}

// HandlePanic converts a panic into an error report and a non-zero exit.
// It should be deferred at the top of main.
func HandlePanic() {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "icesnap panicked: %v\n\n%s\n", r, debug.Stack())
		os.Exit(1)
	}
}
