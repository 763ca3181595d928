// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

// Exit codes returned by the download command.
const (
	// ExitOK covers success, choosing Exit and user cancellation.
	ExitOK = 0
	// ExitUserError covers failures the user can correct: a bad repository
	// reference, a repository without releases or files, a 4xx response.
	ExitUserError = 1
	// ExitFailure covers transient and unexpected failures.
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
