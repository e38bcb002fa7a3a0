// Package script provides the Lua scripting surface for a versioned state
// container.
//
// This package wraps the gopher-lua library to provide:
//   - A sandboxed Lua state with only safe standard libraries opened
//   - Go-Lua type conversion between tables and map[string]any
//   - An "sv" module exposing the state container to scripts
//
// # Engine
//
// The Engine type owns a Lua runtime bound to one state container:
//
//	eng, err := script.NewEngine(st)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	if err := eng.DoFile("migrate.lua"); err != nil {
//	    return err
//	}
//
// # The sv module
//
// Scripts see the container through the global sv table:
//
//	sv.commit({counter = 1})
//	sv.commit(function(state)
//	    return {counter = state.counter + 1}
//	end)
//	sv.undo()
//	print(sv.current().counter)
//
// Function arguments to sv.commit become updater deltas: they receive the
// materialized current state and must return a table of key overwrites.
//
// # Concurrency
//
// gopher-lua's LState is not goroutine-safe, and neither is the underlying
// state container. All Engine operations must be called from a single
// goroutine, or external synchronization must be used.
package script
