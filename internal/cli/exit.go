// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import "github.com/pkg/errors"

// Process exit codes.
//
const (
	ExitSuccess      = 0 // run completed
	ExitFailure      = 1 // unreadable input, gate errors or divergence
	ExitCommandError = 2 // bad usage, flags or configuration
)

// ExitError is an error carrying the exit code of the gatesim command. Err,
// if not nil, is the underlying cause.
//
type ExitError struct {
	Code int
	Msg  string
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
//
func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an *ExitError with the given code and message.
//
func NewExitError(code int, msg string) *ExitError {
	return &ExitError{Code: code, Msg: msg}
}

// WrapExitError returns an *ExitError with the given code, message and
// cause.
//
func WrapExitError(code int, msg string, err error) *ExitError {
	return &ExitError{Code: code, Msg: msg, Err: err}
}

// GetExitCode returns the exit code for err: ExitSuccess if err is nil, the
// code of the first *ExitError in its chain, and ExitFailure otherwise.
//
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *ExitError
	if errors.As(err, &e) {
		return e.Code
	}
	return ExitFailure
}
