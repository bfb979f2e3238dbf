package planner

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignments(t *testing.T) {
	collect := func(objs []Symbol, k int) [][]Symbol {
		var out [][]Symbol
		for a := range Assignments(objs, k) {
			out = append(out, slices.Clone(a))
		}
		return out
	}

	assert.Equal(t, [][]Symbol{
		{"a", "a"}, {"a", "b"}, {"b", "a"}, {"b", "b"},
	}, collect(symbols("a", "b"), 2), "last position varies fastest")
	assert.Len(t, collect(symbols("a", "b", "c"), 3), 27)
	assert.Equal(t, [][]Symbol{{}}, collect(symbols("a"), 0))
	assert.Empty(t, collect(nil, 2))
	assert.Equal(t, [][]Symbol{{}}, collect(nil, 0))

	// The sequence is restartable.
	seq := Assignments(symbols("a", "b"), 1)
	for range 2 {
		n := 0
		for range seq {
			n++
		}
		assert.Equal(t, 2, n)
	}
}

func TestSubsets(t *testing.T) {
	var got [][]int
	for s := range Subsets(4, 2) {
		got = append(got, slices.Clone(s))
	}
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	count := func(n, k int) int {
		c := 0
		for range Subsets(n, k) {
			c++
		}
		return c
	}
	assert.Equal(t, 1, count(3, 3))
	assert.Equal(t, 1, count(3, 0))
	assert.Equal(t, 0, count(2, 3))
	assert.Equal(t, 10, count(5, 3))
}
