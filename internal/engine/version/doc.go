// Package version provides a versioned, immutable application-state
// container with linear undo/redo history.
//
// A State owns an append-only sequence of immutable snapshots and a cursor
// into that sequence. Every commit produces a new snapshot by shallow-merging
// a delta onto the snapshot at the cursor; stored snapshots are never
// modified. Navigation moves the cursor only.
//
// # Commits
//
// All mutation flows through Commit, which accepts a Delta:
//
//	st := version.New(map[string]any{"x": 0})
//
//	// Fixed delta
//	st.Commit(version.Value{"x": 1})
//
//	// Delta computed from the current state
//	st.Commit(version.Updater(func(cur map[string]any) map[string]any {
//	    return map[string]any{"x": cur["x"].(int) + 1}
//	}))
//
// The merge is shallow: each delta key overwrites its previous value
// wholesale, all other keys carry over.
//
// # History and branching
//
// Committing while the cursor is behind the tail first discards every
// later version. Once you commit after undoing, the old redo-able future
// is gone:
//
//	st.Undo()
//	st.Commit(version.Value{"y": 1}) // redo history discarded
//
// # Concurrency
//
// State is not goroutine-safe. All operations must be called from a single
// goroutine, or callers must provide external synchronization. Materialized
// states returned by read accessors are independent copies, and snapshots
// themselves are immutable, so values already obtained remain safe to read
// concurrently.
package version
