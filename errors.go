package tomato

import "errors"

// Lookup errors. These always propagate to the caller.
var (
	// ErrMissingKey is returned when a path segment does not exist and no
	// fallback was given.
	ErrMissingKey = errors.New("missing key")
	// ErrTypeMismatch is returned when a segment cannot index the container
	// found at that point, e.g. a name against a sequence.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidArgument is returned for an empty path or a non-scalar segment.
	ErrInvalidArgument = errors.New("invalid argument")
)

// File errors.
var (
	// ErrDirectoryNotFound is returned when the directory of a file to be
	// written does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrPermissionDenied is returned when a file or its directory is not
	// writable.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDefaultsUnavailable is returned when strict defaults are enabled and
	// the defaults file is missing or unreadable.
	ErrDefaultsUnavailable = errors.New("defaults file unavailable")
)
