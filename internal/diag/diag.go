// Package diag holds the handful of cross-stage error types and the
// stderr reporting helper shared by cmd/nyc and cmd/nyd. This is a
// single-shot batch CLI, not a long-running service, so there is no
// structured logging here — just error values and a reporting helper.
package diag

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// IOError reports an unreadable input file or an unwritable output
// location.
type IOError struct {
	Message string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("IOError: %s", e.Message)
}

// ExtensionError reports an input file whose extension is neither .ny nor
// .nyt.
type ExtensionError struct {
	Path string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("IOError: %s does not have a .ny or .nyt extension", e.Path)
}

// ExitCode maps err to the process exit code the CLI returns: 0 on
// success, 2 for an IOError, 3 for an ExtensionError, 1 for everything
// else (parse/semantic/codegen failure).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var extErr *ExtensionError
	if errors.As(err, &extErr) {
		return 3
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return 2
	}
	return 1
}

// Report writes err to w. With verbose set it prints the full %+v cause
// chain pkg/errors builds as the error is wrapped stage by stage;
// otherwise it prints just the innermost category error's message
// ("<Category>: <message> at line <L>, column <C>"), regardless of how
// many pipeline stages wrapped it.
func Report(w io.Writer, err error, verbose bool) {
	if verbose {
		fmt.Fprintf(w, "%+v\n", err)
		return
	}
	fmt.Fprintln(w, errors.Cause(err))
}
