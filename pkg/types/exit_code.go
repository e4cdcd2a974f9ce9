// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess is reported when a run reaches the Done state.
	ExitSuccess ExitCode = 0
	// ExitFatal is reported when a fatal validation step aborts the run.
	// POSIX shells observe it as 255.
	ExitFatal ExitCode = -1
	// ExitSpawnFailure is recorded for an external invocation that could not
	// be started at all (tool missing, bad working directory).
	ExitSpawnFailure ExitCode = -1
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// The zero value (0) means success. Windows processes may report values
	// outside the POSIX 0-255 range, so only the run-level codes are checked.
	ExitCode int

	// InvalidExitCodeError is returned when a run-level ExitCode is neither
	// ExitSuccess nor ExitFatal.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid run exit code %d (must be %d or %d)", e.Value, ExitSuccess, ExitFatal)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// ValidateRunCode returns an error unless c is one of the codes a whole run
// may terminate with.
func (c ExitCode) ValidateRunCode() error {
	switch c {
	case ExitSuccess, ExitFatal:
		return nil
	default:
		return &InvalidExitCodeError{Value: c}
	}
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
