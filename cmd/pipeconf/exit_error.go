// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// ExitDefinitionErrors is returned by `parse --fail-on-errors` when at
	// least one file was rejected.
	ExitDefinitionErrors = 1
	// ExitFailure is returned when the directory could not be parsed at all.
	ExitFailure = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
