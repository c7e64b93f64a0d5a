package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSourceUnreadable marks an import source that could not be opened at all,
	// as opposed to a persistence failure mid-stream.
	ErrSourceUnreadable = errors.New("import source unreadable")
)
