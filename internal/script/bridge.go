package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Bridge provides utilities for Go-Lua interoperability.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToLuaValue converts a Go value to a Lua value.
func (b *Bridge) ToLuaValue(val any) lua.LValue {
	switch v := val.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case map[string]any:
		t := b.L.NewTable()
		for key, item := range v {
			t.RawSetString(key, b.ToLuaValue(item))
		}
		return t
	case []any:
		t := b.L.NewTable()
		for i, item := range v {
			t.RawSetInt(i+1, b.ToLuaValue(item))
		}
		return t
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}

// ToGoValue converts a Lua value to a Go value.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGoValueWithVisited(lv, make(map[*lua.LTable]bool))
}

// ToGoMap converts a Lua table to a map[string]any. Returns false if the
// value is not a table.
func (b *Bridge) ToGoMap(lv lua.LValue) (map[string]any, bool) {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, false
	}
	m := make(map[string]any)
	visited := map[*lua.LTable]bool{t: true}
	t.ForEach(func(k, v lua.LValue) {
		m[lvalueKey(k)] = b.toGoValueWithVisited(v, visited)
	})
	return m, true
}

// toGoValueWithVisited converts a Lua value, tracking visited tables to
// break circular references.
func (b *Bridge) toGoValueWithVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to either a Go slice or map. Tables with
// contiguous integer keys starting at 1 become slices.
func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	maxN := t.Len()
	if maxN > 0 {
		count := 0
		isArray := true
		t.ForEach(func(k, _ lua.LValue) {
			count++
			kn, ok := k.(lua.LNumber)
			if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 || int(kn) > maxN {
				isArray = false
			}
		})
		if isArray && count == maxN {
			arr := make([]any, maxN)
			for i := 1; i <= maxN; i++ {
				arr[i-1] = b.toGoValueWithVisited(t.RawGetInt(i), visited)
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[lvalueKey(k)] = b.toGoValueWithVisited(v, visited)
	})
	return m
}

// lvalueKey renders a Lua table key as a string map key.
func lvalueKey(k lua.LValue) string {
	switch kv := k.(type) {
	case lua.LString:
		return string(kv)
	case lua.LNumber:
		f := float64(kv)
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%v", f)
	default:
		return k.String()
	}
}
