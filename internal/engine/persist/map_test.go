package persist

import (
	"reflect"
	"testing"
)

func TestFromMapClonesInput(t *testing.T) {
	src := map[string]any{"a": 1, "nested": map[string]any{"x": "y"}}
	m := FromMap(src)

	// Mutate the source after construction
	src["a"] = 99
	src["nested"].(map[string]any)["x"] = "changed"

	got := m.ToMap()
	if got["a"] != 1 {
		t.Errorf("a = %v, want 1", got["a"])
	}
	if got["nested"].(map[string]any)["x"] != "y" {
		t.Error("nested value was not cloned from source")
	}
}

func TestMergeShallowOverwrite(t *testing.T) {
	m := FromMap(map[string]any{"a": 0, "b": 2})
	m2 := m.Merge(map[string]any{"a": 1})

	want := map[string]any{"a": 1, "b": 2}
	if got := m2.ToMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %v, want %v", got, want)
	}

	// Original unchanged
	if got := m.ToMap(); got["a"] != 0 {
		t.Errorf("original a = %v, want 0", got["a"])
	}
}

func TestMergeReplacesNestedWholesale(t *testing.T) {
	m := FromMap(map[string]any{
		"cfg": map[string]any{"x": 1, "y": 2},
	})
	m2 := m.Merge(map[string]any{
		"cfg": map[string]any{"x": 10},
	})

	cfg := m2.ToMap()["cfg"].(map[string]any)
	if _, ok := cfg["y"]; ok {
		t.Error("nested merge should replace wholesale, y should be gone")
	}
	if cfg["x"] != 10 {
		t.Errorf("x = %v, want 10", cfg["x"])
	}
}

func TestMergeInsertsNewKeys(t *testing.T) {
	m := FromMap(map[string]any{"a": 1})
	m2 := m.Merge(map[string]any{"b": 2})

	if m2.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m2.Len())
	}
	if v, ok := m2.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
}

func TestMergeEmptyDelta(t *testing.T) {
	m := FromMap(map[string]any{"a": 1})
	m2 := m.Merge(nil)

	if !reflect.DeepEqual(m2.ToMap(), m.ToMap()) {
		t.Error("merging empty delta should preserve contents")
	}
}

func TestMergeDeltaOwnership(t *testing.T) {
	m := FromMap(map[string]any{"a": 1})
	delta := map[string]any{"b": []any{1, 2}}
	m2 := m.Merge(delta)

	delta["b"].([]any)[0] = 99

	if m2.ToMap()["b"].([]any)[0] != 1 {
		t.Error("delta mutation leaked into merged map")
	}
}

func TestToMapIndependence(t *testing.T) {
	m := FromMap(map[string]any{"nested": map[string]any{"x": 1}})

	first := m.ToMap()
	first["nested"].(map[string]any)["x"] = 99

	second := m.ToMap()
	if second["nested"].(map[string]any)["x"] != 1 {
		t.Error("mutating one materialized copy affected a later one")
	}
}

func TestGetThroughLayers(t *testing.T) {
	m := FromMap(map[string]any{"a": 0, "keep": "v"})
	for i := 1; i <= 5; i++ {
		m = m.Merge(map[string]any{"a": i})
	}

	if v, _ := m.Get("a"); v != 5 {
		t.Errorf("a = %v, want 5", v)
	}
	if v, ok := m.Get("keep"); !ok || v != "v" {
		t.Errorf("keep = %v, %v", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("missing key reported present")
	}
}

func TestFlattenPreservesContents(t *testing.T) {
	m := FromMap(map[string]any{"base": true})
	// Exceed the flatten threshold
	for i := 0; i < 2*maxDepth; i++ {
		m = m.Merge(map[string]any{"i": i, "base": true})
	}

	got := m.ToMap()
	if got["i"] != 2*maxDepth-1 {
		t.Errorf("i = %v, want %d", got["i"], 2*maxDepth-1)
	}
	if got["base"] != true {
		t.Error("base key lost across flatten")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestKeysSorted(t *testing.T) {
	m := FromMap(map[string]any{"c": 1, "a": 2})
	m = m.Merge(map[string]any{"b": 3, "a": 4})

	want := []string{"a", "b", "c"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestZeroValue(t *testing.T) {
	var m Map
	if !m.IsEmpty() || m.Len() != 0 {
		t.Error("zero value should be empty")
	}
	if got := m.ToMap(); len(got) != 0 {
		t.Errorf("ToMap() = %v, want empty", got)
	}
	m2 := m.Merge(map[string]any{"a": 1})
	if v, _ := m2.Get("a"); v != 1 {
		t.Error("merge onto zero value failed")
	}
}
