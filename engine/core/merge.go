package core

// DeepMergeMaps merges override onto base and returns a new map; neither
// input is mutated. Nested map[string]any values merge recursively; every
// other value kind, arrays included, is replaced wholesale by the override.
// Presence wins: an explicit false, zero or empty string in override
// replaces the base value.
func DeepMergeMaps(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = copyValue(v)
	}
	for k, v := range override {
		baseMap, baseIsMap := merged[k].(map[string]any)
		overrideMap, overrideIsMap := v.(map[string]any)
		if baseIsMap && overrideIsMap {
			merged[k] = DeepMergeMaps(baseMap, overrideMap)
			continue
		}
		merged[k] = copyValue(v)
	}
	return merged
}

// copyValue deep-copies maps and slices so merged outputs never alias the
// layer tables they were folded from.
func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
