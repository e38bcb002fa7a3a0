package version

import (
	"fmt"

	"github.com/dshills/statevault/internal/engine/persist"
)

// Delta describes a change to commit. It is a sealed sum type: exactly one
// of Value, Updater, or SnapshotUpdater.
type Delta interface {
	isDelta()
}

// Value is a fixed set of key overwrites. A nil Value is an empty delta.
type Value map[string]any

func (Value) isDelta() {}

// Updater computes the delta from the materialized current state. The map
// it receives is an independent copy; mutating it has no effect on history.
type Updater func(current map[string]any) map[string]any

func (Updater) isDelta() {}

// SnapshotUpdater computes the delta from the raw persistent snapshot,
// for callers that want to avoid materialization cost on large states.
type SnapshotUpdater func(current persist.Map) map[string]any

func (SnapshotUpdater) isDelta() {}

// resolve evaluates a Delta against the given snapshot and returns the
// effective key overwrites.
func resolve(d Delta, current persist.Map) (map[string]any, error) {
	switch v := d.(type) {
	case Value:
		return v, nil
	case Updater:
		if v == nil {
			return nil, fmt.Errorf("%w: nil updater", ErrInvalidDelta)
		}
		out := v(current.ToMap())
		if out == nil {
			return nil, fmt.Errorf("%w: updater returned nil", ErrInvalidDelta)
		}
		return out, nil
	case SnapshotUpdater:
		if v == nil {
			return nil, fmt.Errorf("%w: nil updater", ErrInvalidDelta)
		}
		out := v(current)
		if out == nil {
			return nil, fmt.Errorf("%w: updater returned nil", ErrInvalidDelta)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidDelta, d)
	}
}

// describeDelta builds a short human-readable label for a resolved delta.
func describeDelta(delta map[string]any) string {
	if len(delta) == 0 {
		return "no changes"
	}
	if len(delta) == 1 {
		for key := range delta {
			return fmt.Sprintf("set %q", key)
		}
	}
	return fmt.Sprintf("set %d keys", len(delta))
}
