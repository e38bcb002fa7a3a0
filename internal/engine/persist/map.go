package persist

import "sort"

// maxDepth is the maximum layer chain length before a Merge flattens the
// chain into a single layer. Keeps Get bounded after long merge runs.
const maxDepth = 8

// layer is one link in a Map's chain. Entries shadow the parent's entries.
// A layer is never modified after construction.
type layer struct {
	parent  *layer
	entries map[string]any
	depth   int
	size    int // distinct keys visible from this layer down
}

// Map is an immutable string-keyed mapping with structural sharing.
// Operations return new Map values; the original is never modified.
// The zero value is an empty Map.
type Map struct {
	top *layer
}

// FromMap creates a Map holding a deep clone of m. Later mutation of m
// does not affect the result.
func FromMap(m map[string]any) Map {
	if len(m) == 0 {
		return Map{}
	}
	return Map{top: &layer{
		entries: cloneMap(m),
		size:    len(m),
	}}
}

// Merge returns a new Map with delta shallow-merged over the receiver.
// Each key in delta replaces (or inserts) that key; all other keys are
// shared with the receiver. The delta is deep-cloned, so the caller keeps
// ownership of the map it passed in.
func (m Map) Merge(delta map[string]any) Map {
	if len(delta) == 0 {
		return m
	}
	if m.top == nil {
		return FromMap(delta)
	}

	added := 0
	for key := range delta {
		if _, ok := m.Get(key); !ok {
			added++
		}
	}

	next := &layer{
		parent:  m.top,
		entries: cloneMap(delta),
		depth:   m.top.depth + 1,
		size:    m.top.size + added,
	}
	if next.depth >= maxDepth {
		return Map{top: flatten(next)}
	}
	return Map{top: next}
}

// Get returns the value for key and whether it is present. The returned
// value is shared with the Map's internal structure; callers must not
// mutate it. Use ToMap for an independent copy.
func (m Map) Get(key string) (any, bool) {
	for l := m.top; l != nil; l = l.parent {
		if v, ok := l.entries[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Len returns the number of distinct keys.
func (m Map) Len() int {
	if m.top == nil {
		return 0
	}
	return m.top.size
}

// Keys returns all distinct keys in sorted order.
func (m Map) Keys() []string {
	seen := make(map[string]bool, m.Len())
	keys := make([]string, 0, m.Len())
	for l := m.top; l != nil; l = l.parent {
		for key := range l.entries {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// ToMap materializes the Map into a fresh plain map. Every value is deep
// cloned, so mutating the result never affects this Map or any Map that
// shares structure with it.
func (m Map) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	seen := make(map[string]bool, m.Len())
	for l := m.top; l != nil; l = l.parent {
		for key, val := range l.entries {
			if !seen[key] {
				seen[key] = true
				out[key] = cloneValue(val)
			}
		}
	}
	return out
}

// IsEmpty returns true if the Map has no keys.
func (m Map) IsEmpty() bool {
	return m.Len() == 0
}

// flatten collapses a layer chain into a single layer. Values are shared,
// not cloned; layers are immutable so sharing is safe.
func flatten(top *layer) *layer {
	entries := make(map[string]any, top.size)
	for l := top; l != nil; l = l.parent {
		for key, val := range l.entries {
			if _, ok := entries[key]; !ok {
				entries[key] = val
			}
		}
	}
	return &layer{
		entries: entries,
		size:    len(entries),
	}
}
