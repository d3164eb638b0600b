// SPDX-License-Identifier: MIT

package cli

import "fmt"

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// UsageError reports a wrong command name or argument combination.
// No computation is attempted once it is raised.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// FileError names an input path that does not exist or cannot be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// opError tags a failure raised while a subcommand was running, so it can be
// told apart from argument errors produced by cobra itself.
type opError struct {
	Cmd string
	Err error
}

func (e *opError) Error() string {
	return e.Cmd + ": " + e.Err.Error()
}

func (e *opError) Unwrap() error {
	return e.Err
}
