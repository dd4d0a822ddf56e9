package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	options := []string{"Press 1", "press 2", "Conveyor", "Robot Arm", "PRESS brake"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all", "", options},
		{"case insensitive", "press", []string{"Press 1", "press 2", "PRESS brake"}},
		{"upper case query", "ROBOT", []string{"Robot Arm"}},
		{"middle of word", "vey", []string{"Conveyor"}},
		{"no match", "welder", []string{}},
		{"whitespace is literal", " 1", []string{"Press 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(options, tt.query))
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	options := []string{"Line 1", "Line 10", "Assembly", "line 2"}
	for _, q := range []string{"", "line", "1", "x"} {
		once := Filter(options, q)
		assert.Equal(t, once, Filter(once, q), "query %q", q)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	options := []string{"b", "a", "ab"}
	_ = Filter(options, "a")
	assert.Equal(t, []string{"b", "a", "ab"}, options)
}

func TestFilter_NilOptions(t *testing.T) {
	assert.Nil(t, Filter(nil, ""))
	assert.Empty(t, Filter(nil, "x"))
}
