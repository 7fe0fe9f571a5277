package console

import (
	"errors"
	"fmt"
	"io"
)

// ExitError carries a process exit code out of a cobra RunE. The status
// line has already been printed when it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit returns an *ExitError for code.
func Exit(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps a command error to a process exit code. Errors other than
// *ExitError are printed to stderr and yield 1.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
