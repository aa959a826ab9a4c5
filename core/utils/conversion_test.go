package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{"String", "abc", "abc"},
		{"Number", json.Number("42"), "42"},
		{"Float whole", float64(42), "42"},
		{"Float fraction", 2.5, "2.5"},
		{"Bool", true, "true"},
		{"Bytes", []byte("xyz"), "xyz"},
		{"Int", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.val))
		})
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name   string
		val    any
		want   float64
		wantOK bool
	}{
		{"Float64", 46.9, 46.9, true},
		{"Number", json.Number("7.5"), 7.5, true},
		{"Int", 3, 3, true},
		{"String", "7.5", 0, false},
		{"Nil", nil, 0, false},
		{"BadNumber", json.Number("abc"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsFloat(tt.val)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsMapAndSlice(t *testing.T) {
	assert.Equal(t, map[string]any{"a": "b"}, AsMap(map[string]any{"a": "b"}))
	assert.Nil(t, AsMap("not a map"))
	assert.Equal(t, []any{"a"}, AsSlice([]any{"a"}))
	assert.Nil(t, AsSlice(map[string]any{}))
}
