// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAbort is returned by engines and callbacks to cancel the whole run. A cancelled
	// context is treated the same way.
	ErrAbort = errors.New("operation aborted")

	// ErrFail is the generic failure of a run.
	ErrFail = errors.New("unspecified failure")

	// ErrNotImplemented is reported as open result for archives that cannot be extracted
	// in the requested mode, e.g. checksum listings outside of test mode.
	ErrNotImplemented = errors.New("operation is not supported for this archive")

	// ErrUnsupportedArchive is returned by an [Engine] if no handler recognizes the input.
	ErrUnsupportedArchive = errors.New("cannot open the file as archive")

	// ErrDataError is reported by handlers when the data of an item is corrupt or
	// does not match its checksum.
	ErrDataError = errors.New("data error")
)

// FatalIOError is a filesystem failure that stops the extraction of the current archive
// or the whole run. It carries a fixed description, the offending path and the OS error.
type FatalIOError struct {
	Message string
	Path    string
	Err     error
}

// Error returns the user visible message "<description> : <os error> : <path>".
func (e *FatalIOError) Error() string {
	return fmt.Sprintf("%s : %s : %s", e.Message, errorText(e.Err), e.Path)
}

// Unwrap returns the underlying OS error.
func (e *FatalIOError) Unwrap() error {
	return e.Err
}

// errorText returns the innermost message of err, so that path errors do not repeat
// the path that is already part of a [FatalIOError].
func errorText(err error) string {
	if err == nil {
		return ErrFail.Error()
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// isAbort reports whether err cancels the whole run.
func isAbort(err error) bool {
	return errors.Is(err, ErrAbort) || errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
