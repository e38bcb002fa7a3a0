package version

import (
	"time"

	"github.com/google/uuid"
)

// VersionInfo describes one stored version.
type VersionInfo struct {
	// ID uniquely identifies the version across resets and branches.
	ID uuid.UUID

	// Index is the version's position in history at the time of the query.
	Index int

	// Label is a short description of how the version was created.
	Label string

	// Time is when the version was appended.
	Time time.Time
}

// newInfo creates metadata for a freshly appended version.
func newInfo(index int, label string) VersionInfo {
	return VersionInfo{
		ID:    uuid.New(),
		Index: index,
		Label: label,
		Time:  time.Now(),
	}
}
