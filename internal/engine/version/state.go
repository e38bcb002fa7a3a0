package version

import (
	"github.com/dshills/statevault/internal/engine/persist"
)

// State is a versioned application-state container with linear undo/redo
// history. History index 0 is the construction-time snapshot; the cursor
// always points at a valid history entry.
//
// State provides no internal locking. See the package documentation for
// the concurrency contract.
type State struct {
	history []persist.Map
	infos   []VersionInfo
	cursor  int
}

// New creates a State whose single version is a snapshot of initial.
// The initial map is deep-cloned; the caller keeps ownership of it.
func New(initial map[string]any) *State {
	return &State{
		history: []persist.Map{persist.FromMap(initial)},
		infos:   []VersionInfo{newInfo(0, "initial")},
		cursor:  0,
	}
}

// Commit shallow-merges a delta onto the current version and appends the
// result as the new current version. Any versions after the cursor are
// discarded first: committing after an undo permanently drops the old
// redo-able future.
//
// Commit is atomic: on error, history and cursor are unchanged. Returns
// the materialized new current state.
func (s *State) Commit(d Delta) (map[string]any, error) {
	return s.commit("", d)
}

// CommitLabeled is Commit with an explicit label recorded in the version
// metadata. An empty label falls back to a derived description.
func (s *State) CommitLabeled(label string, d Delta) (map[string]any, error) {
	return s.commit(label, d)
}

func (s *State) commit(label string, d Delta) (map[string]any, error) {
	current := s.history[s.cursor]

	delta, err := resolve(d, current)
	if err != nil {
		return nil, err
	}

	if label == "" {
		label = describeDelta(delta)
	}

	next := current.Merge(delta)

	// Branch point: discard redo-able future, then append.
	s.history = append(s.history[:s.cursor+1], next)
	s.infos = append(s.infos[:s.cursor+1], newInfo(s.cursor+1, label))
	s.cursor = len(s.history) - 1

	return next.ToMap(), nil
}

// CurrentState returns the materialized current version. Each call returns
// a fresh independent copy; mutating it never affects history.
func (s *State) CurrentState() map[string]any {
	return s.history[s.cursor].ToMap()
}

// CurrentSnapshot returns the raw persistent snapshot at the cursor,
// without materialization. The snapshot is immutable and safe to read
// concurrently.
func (s *State) CurrentSnapshot() persist.Map {
	return s.history[s.cursor]
}

// InitialState returns the materialized version at index 0.
func (s *State) InitialState() map[string]any {
	return s.history[0].ToMap()
}

// StateAt returns the materialized version at the given index. Returns a
// RangeError (matching ErrVersionOutOfRange) if index is outside history.
func (s *State) StateAt(index int) (map[string]any, error) {
	if index < 0 || index >= len(s.history) {
		return nil, &RangeError{Index: index, Count: len(s.history)}
	}
	return s.history[index].ToMap(), nil
}

// Reset reverts to the initial state.
//
// With force, all history is discarded irrecoverably and replaced by a
// single version equal to the initial state. Without force, the initial
// state is appended as a new version at the tail, keeping all existing
// history (including any redo-able future) intact.
//
// Returns the current state after the reset.
func (s *State) Reset(force bool) map[string]any {
	initial := s.history[0]
	if force {
		s.history = []persist.Map{initial}
		s.infos = []VersionInfo{newInfo(0, "reset")}
		s.cursor = 0
	} else {
		s.history = append(s.history, initial)
		s.infos = append(s.infos, newInfo(len(s.history)-1, "reset"))
		s.cursor = len(s.history) - 1
	}
	return s.CurrentState()
}

// Rewind moves the cursor back n versions, clamping at index 0. Negative
// n is treated as 0. History is never modified. Returns the current state
// after the move.
func (s *State) Rewind(n int) map[string]any {
	if n < 0 {
		n = 0
	}
	target := s.cursor - n
	if target > 0 {
		s.cursor = target
	} else {
		s.cursor = 0
	}
	return s.CurrentState()
}

// Undo moves the cursor back one version. No-op at index 0. Returns the
// current state after the move.
func (s *State) Undo() map[string]any {
	if s.cursor > 0 {
		s.cursor--
	}
	return s.CurrentState()
}

// Redo moves the cursor forward one version. No-op at the tail. Returns
// the current state after the move.
func (s *State) Redo() map[string]any {
	if s.cursor < len(s.history)-1 {
		s.cursor++
	}
	return s.CurrentState()
}

// CanUndo returns true if the cursor can move backward.
func (s *State) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo returns true if the cursor can move forward.
func (s *State) CanRedo() bool {
	return s.cursor < len(s.history)-1
}

// CurrentIndex returns the cursor position.
func (s *State) CurrentIndex() int {
	return s.cursor
}

// VersionCount returns the number of stored versions.
func (s *State) VersionCount() int {
	return len(s.history)
}

// Log returns metadata for every stored version, oldest first.
func (s *State) Log() []VersionInfo {
	result := make([]VersionInfo, len(s.infos))
	copy(result, s.infos)
	return result
}

// Describe returns metadata for the version at the given index. Returns a
// RangeError (matching ErrVersionOutOfRange) if index is outside history.
func (s *State) Describe(index int) (VersionInfo, error) {
	if index < 0 || index >= len(s.infos) {
		return VersionInfo{}, &RangeError{Index: index, Count: len(s.infos)}
	}
	return s.infos[index], nil
}
