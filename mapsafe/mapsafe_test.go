package mapsafe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	m := map[string]any{
		"int":      7,
		"int64":    int64(8),
		"whole":    55.0,
		"fraction": 55.5,
		"inf":      math.Inf(1),
		"string":   "abc",
		"bool":     true,
	}

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"int", 7, true},
		{"int64", 8, true},
		{"whole", 55, true},
		{"fraction", 0, false},
		{"inf", 0, false},
		{"string", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		got, ok := Lookup[int](m, tt.key)
		assert.Equal(t, tt.wantOK, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	s, ok := Lookup[string](m, "string")
	assert.True(t, ok)
	assert.Equal(t, "abc", s)

	f, ok := Lookup[float64](m, "int")
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	b, ok := Lookup[bool](m, "bool")
	assert.True(t, ok)
	assert.True(t, b)
}

func TestGet(t *testing.T) {
	m := map[string]any{"rate": 42.0, "name": 3}

	assert.Equal(t, 42, Get(m, "rate", 0))
	assert.Equal(t, "fallback", Get(m, "name", "fallback"))
	assert.Equal(t, -1, Get(m, "missing", -1))
}
