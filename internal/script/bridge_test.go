package script

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	return NewBridge(L)
}

func TestToLuaAndBackMap(t *testing.T) {
	b := newTestBridge(t)

	src := map[string]any{
		"name":  "test",
		"count": 42,
		"ratio": 1.5,
		"on":    true,
		"list":  []any{1, 2, 3},
		"child": map[string]any{"k": "v"},
	}

	lv := b.ToLuaValue(src)
	got, ok := b.ToGoMap(lv)
	if !ok {
		t.Fatal("round trip did not produce a table")
	}

	if !reflect.DeepEqual(got, src) {
		t.Errorf("round trip = %v, want %v", got, src)
	}
}

func TestToGoValueScalars(t *testing.T) {
	b := newTestBridge(t)

	tests := []struct {
		name string
		lv   lua.LValue
		want any
	}{
		{"bool", lua.LBool(true), true},
		{"integer", lua.LNumber(7), 7},
		{"float", lua.LNumber(2.5), 2.5},
		{"string", lua.LString("hi"), "hi"},
		{"nil", lua.LNil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.ToGoValue(tt.lv); got != tt.want {
				t.Errorf("ToGoValue = %v (%T), want %v", got, got, tt.want)
			}
		})
	}
}

func TestToGoMapRejectsNonTable(t *testing.T) {
	b := newTestBridge(t)

	if _, ok := b.ToGoMap(lua.LString("x")); ok {
		t.Error("ToGoMap accepted a string")
	}
	if _, ok := b.ToGoMap(lua.LNil); ok {
		t.Error("ToGoMap accepted nil")
	}
}

func TestTableArrayDetection(t *testing.T) {
	b := newTestBridge(t)

	arr := b.L.NewTable()
	arr.RawSetInt(1, lua.LNumber(10))
	arr.RawSetInt(2, lua.LNumber(20))

	got := b.ToGoValue(arr)
	want := []any{10, 20}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("array table = %v, want %v", got, want)
	}
}

func TestTableMixedKeysBecomesMap(t *testing.T) {
	b := newTestBridge(t)

	tbl := b.L.NewTable()
	tbl.RawSetInt(1, lua.LNumber(10))
	tbl.RawSetString("name", lua.LString("x"))

	got, ok := b.ToGoValue(tbl).(map[string]any)
	if !ok {
		t.Fatalf("mixed table = %T, want map", b.ToGoValue(tbl))
	}
	if got["name"] != "x" || got["1"] != 10 {
		t.Errorf("mixed table = %v", got)
	}
}

func TestCircularTableDoesNotHang(t *testing.T) {
	b := newTestBridge(t)

	tbl := b.L.NewTable()
	tbl.RawSetString("self", tbl)

	got, ok := b.ToGoValue(tbl).(map[string]any)
	if !ok {
		t.Fatal("circular table did not convert to map")
	}
	if got["self"] != nil {
		t.Errorf("circular reference = %v, want nil", got["self"])
	}
}
