package mapsafe

import "math"

// Lookup retrieves a typed value from a map[string]any. It reports false when
// the key is missing or the value cannot be converted without loss. Numbers
// decoded from JSON or protobuf Structs arrive as float64; they convert to int
// only when integral.
func Lookup[T any](m map[string]any, key string) (T, bool) {
	var zero T

	val, ok := m[key]
	if !ok {
		return zero, false
	}

	switch any(zero).(type) {
	case int:
		switch x := val.(type) {
		case int:
			return any(x).(T), true
		case int64:
			return any(int(x)).(T), true
		case float64:
			if x != math.Trunc(x) || math.IsInf(x, 0) {
				return zero, false
			}
			return any(int(x)).(T), true
		}
	case float64:
		switch x := val.(type) {
		case float64:
			return any(x).(T), true
		case int:
			return any(float64(x)).(T), true
		}
	default:
		// fallback: if type matches exactly
		if v, ok := val.(T); ok {
			return v, true
		}
	}

	return zero, false
}

// Get is Lookup with a default for missing or unconvertible values.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	if v, ok := Lookup[T](m, key); ok {
		return v
	}

	return defaultValue
}
