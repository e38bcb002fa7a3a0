package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statevault/internal/engine/version"
)

// svModule implements the sv API module exposed to scripts.
type svModule struct {
	bridge *Bridge
	state  *version.State
}

// registerModule registers the sv module into the Lua state.
func registerModule(L *lua.LState, bridge *Bridge, st *version.State) error {
	m := &svModule{bridge: bridge, state: st}

	mod := L.NewTable()

	L.SetField(mod, "current", L.NewFunction(m.current))
	L.SetField(mod, "initial", L.NewFunction(m.initial))
	L.SetField(mod, "at", L.NewFunction(m.at))
	L.SetField(mod, "commit", L.NewFunction(m.commit))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "rewind", L.NewFunction(m.rewind))
	L.SetField(mod, "reset", L.NewFunction(m.reset))
	L.SetField(mod, "can_undo", L.NewFunction(m.canUndo))
	L.SetField(mod, "can_redo", L.NewFunction(m.canRedo))
	L.SetField(mod, "index", L.NewFunction(m.index))
	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetField(mod, "log", L.NewFunction(m.log))

	L.SetGlobal("sv", mod)
	return nil
}

// current() -> table
// Returns the materialized current state.
func (m *svModule) current(L *lua.LState) int {
	L.Push(m.bridge.ToLuaValue(m.state.CurrentState()))
	return 1
}

// initial() -> table
// Returns the materialized initial state.
func (m *svModule) initial(L *lua.LState) int {
	L.Push(m.bridge.ToLuaValue(m.state.InitialState()))
	return 1
}

// at(index) -> table
// Returns the state at a version index (0-based). Raises on out of range.
func (m *svModule) at(L *lua.LState) int {
	index := L.CheckInt(1)

	state, err := m.state.StateAt(index)
	if err != nil {
		L.RaiseError("at: %v", err)
		return 0
	}

	L.Push(m.bridge.ToLuaValue(state))
	return 1
}

// commit(delta) -> table
// Commits a delta and returns the new current state. The delta is either
// a table of key overwrites or a function receiving the current state and
// returning such a table.
func (m *svModule) commit(L *lua.LState) int {
	arg := L.CheckAny(1)

	var d version.Delta
	var callErr error

	switch v := arg.(type) {
	case *lua.LTable:
		delta, _ := m.bridge.ToGoMap(v)
		d = version.Value(delta)
	case *lua.LFunction:
		d = version.Updater(func(current map[string]any) map[string]any {
			L.Push(v)
			L.Push(m.bridge.ToLuaValue(current))
			if err := L.PCall(1, 1, nil); err != nil {
				callErr = err
				return nil
			}
			ret := L.Get(-1)
			L.Pop(1)
			out, ok := m.bridge.ToGoMap(ret)
			if !ok {
				return nil
			}
			return out
		})
	default:
		L.ArgError(1, ErrNotCallable.Error())
		return 0
	}

	state, err := m.state.Commit(d)
	if err != nil {
		if callErr != nil {
			err = callErr
		}
		L.RaiseError("commit: %v", err)
		return 0
	}

	L.Push(m.bridge.ToLuaValue(state))
	return 1
}

// undo() -> table
func (m *svModule) undo(L *lua.LState) int {
	L.Push(m.bridge.ToLuaValue(m.state.Undo()))
	return 1
}

// redo() -> table
func (m *svModule) redo(L *lua.LState) int {
	L.Push(m.bridge.ToLuaValue(m.state.Redo()))
	return 1
}

// rewind(n) -> table
func (m *svModule) rewind(L *lua.LState) int {
	n := L.CheckInt(1)
	L.Push(m.bridge.ToLuaValue(m.state.Rewind(n)))
	return 1
}

// reset(force?) -> table
// Without arguments performs a soft reset.
func (m *svModule) reset(L *lua.LState) int {
	force := L.OptBool(1, false)
	L.Push(m.bridge.ToLuaValue(m.state.Reset(force)))
	return 1
}

// can_undo() -> bool
func (m *svModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.state.CanUndo()))
	return 1
}

// can_redo() -> bool
func (m *svModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.state.CanRedo()))
	return 1
}

// index() -> number
// Returns the 0-based cursor position.
func (m *svModule) index(L *lua.LState) int {
	L.Push(lua.LNumber(m.state.CurrentIndex()))
	return 1
}

// count() -> number
func (m *svModule) count(L *lua.LState) int {
	L.Push(lua.LNumber(m.state.VersionCount()))
	return 1
}

// log() -> array of {id, index, label, time}
func (m *svModule) log(L *lua.LState) int {
	entries := m.state.Log()

	arr := L.NewTable()
	for i, info := range entries {
		entry := L.NewTable()
		entry.RawSetString("id", lua.LString(info.ID.String()))
		entry.RawSetString("index", lua.LNumber(info.Index))
		entry.RawSetString("label", lua.LString(info.Label))
		entry.RawSetString("time", lua.LString(info.Time.Format(time.RFC3339)))
		arr.RawSetInt(i+1, entry)
	}

	L.Push(arr)
	return 1
}
