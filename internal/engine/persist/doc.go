// Package persist provides an immutable, structurally shared string-keyed map.
//
// A Map is never modified after creation. Merge layers a delta over an
// existing Map and returns a new one; the two share all unchanged structure.
// This enables cheap point-in-time snapshots and thread-safe concurrent
// read access.
//
// Key features:
//   - O(delta) Merge with structural sharing of untouched keys
//   - Shallow, one-level merge semantics: a key in the delta replaces the
//     previous value wholesale, nested values are not merged recursively
//   - Deep-cloned materialization: ToMap returns an independent plain map
//     that callers may freely mutate
//   - Layer chains are flattened past a depth threshold so lookups stay
//     bounded
//
// Basic usage:
//
//	m := persist.FromMap(map[string]any{"a": 0, "b": 2})
//	m2 := m.Merge(map[string]any{"a": 1}) // {a: 1, b: 2}
//	_ = m.ToMap()                         // still {a: 0, b: 2}
package persist
