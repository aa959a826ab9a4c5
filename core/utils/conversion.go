package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString converts arbitrary decoded JSON values to their string form.
// It is used to stringify free-form property-bag values and identity keys.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsFloat reports whether the value is numeric and returns it as a float64.
// Decoded JSON numbers arrive as json.Number or float64 depending on the
// decoder; both are accepted. Non-numeric values return false.
func AsFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsMap returns the value as a JSON object, or nil if it is anything else.
func AsMap(val any) map[string]any {
	m, _ := val.(map[string]any)
	return m
}

// AsSlice returns the value as a JSON array, or nil if it is anything else.
func AsSlice(val any) []any {
	s, _ := val.([]any)
	return s
}
