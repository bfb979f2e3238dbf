package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_AddEraseContains(t *testing.T) {
	st := NewState([]int{1, 1, 2})
	st.Add(1, TupleOf("rm0"))
	st.Add(1, TupleOf("rm0"))
	st.Add(2, TupleOf("rm0", "rm1"))
	assert.Equal(t, 2, st.Len(), "duplicate add must not count")
	assert.Equal(t, 3, st.Slots())
	assert.Equal(t, []int{1, 1, 2}, st.Arities())
	assert.Equal(t, 1, st.SlotLen(2))
	assert.Equal(t, 0, st.SlotLen(9))

	assert.True(t, st.Contains(1, TupleOf("rm0")))
	assert.False(t, st.Contains(2, TupleOf("rm1", "rm0")))
	assert.False(t, st.Contains(7, TupleOf("rm0")))

	st.Erase(1, TupleOf("rm0"))
	assert.False(t, st.Contains(1, TupleOf("rm0")))
	assert.Equal(t, 1, st.Len())
}

func TestState_EraseAbsentPanics(t *testing.T) {
	st := NewState([]int{1, 1})
	assert.Panics(t, func() { st.Erase(1, TupleOf("nothing")) })
}

func TestState_IncludedAndEqual(t *testing.T) {
	a := NewState([]int{1, 1, 2})
	a.Add(1, TupleOf("x"))
	a.Add(2, TupleOf("x", "y"))

	// Same facts, different insertion order.
	b := NewState([]int{1, 1, 2})
	b.Add(2, TupleOf("x", "y"))
	b.Add(1, TupleOf("x"))

	goal := NewState([]int{1, 1, 2})
	goal.Add(1, TupleOf("x"))

	assert.True(t, a.Equal(b))
	assert.True(t, goal.Included(a))
	assert.False(t, a.Included(goal))
	assert.False(t, a.Equal(goal))
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), goal.Key())

	empty := NewState([]int{1, 1, 2})
	assert.True(t, empty.Included(a), "the empty goal is always satisfied")
}

func TestState_KeyIsCanonical(t *testing.T) {
	names := []string{"m", "c", "x", "a", "k"}
	a := NewState([]int{1, 1})
	b := NewState([]int{1, 1})
	for i := range names {
		a.Add(1, TupleOf(names[i]))
		b.Add(1, TupleOf(names[len(names)-1-i]))
	}
	assert.Equal(t, a.Key(), b.Key())

	// Same symbols in different slots are different states.
	c := NewState([]int{1, 1, 1})
	d := NewState([]int{1, 1, 1})
	c.Add(1, TupleOf("a"))
	d.Add(2, TupleOf("a"))
	assert.NotEqual(t, c.Key(), d.Key())

	// Tuple boundaries are part of the key.
	e := NewState([]int{1, 2})
	f := NewState([]int{1, 2})
	e.Add(1, TupleOf("ab", "c"))
	f.Add(1, TupleOf("a", "bc"))
	assert.NotEqual(t, e.Key(), f.Key())
}

func TestState_CloneAndReset(t *testing.T) {
	st := NewState([]int{1, 1})
	st.Add(1, TupleOf("a"))
	c := st.Clone()
	c.Add(1, TupleOf("b"))
	c.Erase(1, TupleOf("a"))

	assert.True(t, st.Contains(1, TupleOf("a")))
	assert.False(t, st.Contains(1, TupleOf("b")))
	assert.Equal(t, 1, st.Len())

	st.Reset()
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 2, st.Slots())
}

func TestState_FactsAndAt(t *testing.T) {
	st := NewState([]int{1, 1, 2})
	st.Add(0, TupleOf("raining"))
	st.Add(2, TupleOf("a", "b"))
	st.Add(1, TupleOf("b"))
	st.Add(1, TupleOf("a"))

	type fact struct {
		slot int
		t    string
	}
	var facts []fact
	for slot, tp := range st.Facts() {
		facts = append(facts, fact{slot, tp.String()})
	}
	require.Len(t, facts, 4)
	assert.Equal(t, fact{0, "(raining)"}, facts[0])
	assert.Equal(t, fact{1, "(a)"}, facts[1])
	assert.Equal(t, fact{1, "(b)"}, facts[2])
	assert.Equal(t, fact{2, "(a, b)"}, facts[3])

	for i, want := range facts {
		slot, tp, ok := st.At(i)
		require.True(t, ok)
		assert.Equal(t, want, fact{slot, tp.String()})
	}
	_, _, ok := st.At(4)
	assert.False(t, ok)

	assert.Equal(t, "0: (raining)\n1: (a) (b)\n2: (a, b)\n", st.String())
}
