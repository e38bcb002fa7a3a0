package version

import (
	"errors"
	"fmt"
)

// Common errors for version operations.
var (
	// ErrInvalidDelta is returned by Commit when the delta (or the value
	// produced by an updater) is not usable as a set of key overwrites.
	ErrInvalidDelta = errors.New("invalid delta")

	// ErrVersionOutOfRange is returned when a version index is outside
	// the current history bounds.
	ErrVersionOutOfRange = errors.New("version index out of range")
)

// RangeError reports an out-of-bounds version index along with the valid
// range at the time of the call. It unwraps to ErrVersionOutOfRange.
type RangeError struct {
	Index int
	Count int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("version index %d out of range [0, %d]", e.Index, e.Count-1)
}

// Unwrap returns ErrVersionOutOfRange so callers can match with errors.Is.
func (e *RangeError) Unwrap() error {
	return ErrVersionOutOfRange
}
