// SPDX-License-Identifier: MPL-2.0

package fsync

import (
	"errors"
	"fmt"
)

var (
	// ErrFolderDelete is the sentinel wrapped by DeleteError.
	ErrFolderDelete = errors.New("folder delete failure")
	// ErrFolderCopy is the sentinel wrapped by CopyError.
	ErrFolderCopy = errors.New("folder copy failure")
	// ErrSourceUnavailable is returned when the source folder cannot be read.
	ErrSourceUnavailable = errors.New("source folder unavailable")
)

type (
	// DeleteError records a failed removal of the previous destination.
	DeleteError struct {
		Path string
		Err  error
	}

	// CopyError records one entry that could not be mirrored.
	CopyError struct {
		Source      string
		Destination string
		Err         error
	}
)

func (e *DeleteError) Error() string {
	return fmt.Sprintf("remove %q: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *DeleteError) Unwrap() []error { return []error{ErrFolderDelete, e.Err} }

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %q to %q: %v", e.Source, e.Destination, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *CopyError) Unwrap() []error { return []error{ErrFolderCopy, e.Err} }
