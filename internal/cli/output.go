package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/treecrdt-sqlite/internal/hostcheck"
)

// Process exit codes. Scripts probing a host distinguish "the host
// lacks the extension" (ExitFailure) from "the probe itself could not
// run" (ExitCommandError).
const (
	ExitSuccess      = 0 // all capabilities present
	ExitFailure      = 1 // one or more capabilities missing
	ExitCommandError = 2 // bad arguments, unreadable database, etc.
)

// ExitError carries a process exit code alongside the error.
type ExitError struct {
	Code    int
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps an error to a process exit code. Anything that is
// not an ExitError counts as a plain failure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// renderReport writes a capability report in the requested format.
func renderReport(w io.Writer, format string, report hostcheck.Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "driver: %s\n", report.Driver)
	ok := 0
	for _, c := range report.Capabilities {
		if c.OK {
			ok++
			fmt.Fprintf(w, "  ok    %-30s %s\n", c.Name, c.Detail)
		} else {
			fmt.Fprintf(w, "  FAIL  %-30s %s\n", c.Name, c.Error)
		}
	}
	fmt.Fprintf(w, "capabilities: %d/%d ok\n", ok, len(report.Capabilities))
	return nil
}
