package persist

// cloneValue creates a deep copy of a value. Maps and slices are copied
// recursively; all other types are assumed immutable and returned as-is.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = cloneValue(v)
	}
	return result
}

// cloneSlice creates a deep copy of a slice.
func cloneSlice(s []any) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = cloneValue(v)
	}
	return result
}
