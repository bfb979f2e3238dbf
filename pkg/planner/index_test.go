package planner

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateIndex_InsertContains(t *testing.T) {
	ix := NewPredicateIndex(2)
	assert.True(t, ix.Insert(TupleOf("rm0", "rm1")))
	assert.True(t, ix.Insert(TupleOf("rm1", "rm0")))
	assert.False(t, ix.Insert(TupleOf("rm0", "rm1")), "duplicate insert")
	assert.Equal(t, 2, ix.Len())

	assert.True(t, ix.Contains(TupleOf("rm0", "rm1")))
	assert.False(t, ix.Contains(TupleOf("rm0", "rm2")))
	assert.False(t, ix.Contains(TupleOf("rm0")), "wrong arity is never contained")
}

func TestPredicateIndex_WrongArityPanics(t *testing.T) {
	ix := NewPredicateIndex(2)
	assert.Panics(t, func() { ix.Insert(TupleOf("a")) })
	assert.Panics(t, func() { NewPredicateIndex(0) })
}

func TestPredicateIndex_Erase(t *testing.T) {
	tests := []struct {
		name   string
		insert []Tuple
		erase  Tuple
	}{
		{"leaf", []Tuple{TupleOf("m"), TupleOf("a")}, TupleOf("a")},
		{"root with left subtree", []Tuple{TupleOf("m"), TupleOf("c"), TupleOf("k"), TupleOf("x")}, TupleOf("m")},
		{"root with right subtree only", []Tuple{TupleOf("a"), TupleOf("m"), TupleOf("c"), TupleOf("z")}, TupleOf("a")},
		{"internal binary node", []Tuple{
			TupleOf("m", "m"), TupleOf("c", "x"), TupleOf("c", "a"), TupleOf("d", "z"),
			TupleOf("a", "y"), TupleOf("x", "b"),
		}, TupleOf("c", "x")},
		{"equal coordinate tie", []Tuple{
			TupleOf("b", "b"), TupleOf("b", "a"), TupleOf("b", "c"), TupleOf("a", "b"),
		}, TupleOf("b", "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := NewPredicateIndex(tt.insert[0].Arity())
			for _, tp := range tt.insert {
				require.True(t, ix.Insert(tp))
			}
			require.True(t, ix.Erase(tt.erase))
			assert.False(t, ix.Contains(tt.erase))
			assert.False(t, ix.Erase(tt.erase), "second erase")
			assert.Equal(t, len(tt.insert)-1, ix.Len())
			for _, tp := range tt.insert {
				if !tp.Equal(tt.erase) {
					assert.True(t, ix.Contains(tp), "lost %v", tp)
				}
			}
		})
	}
}

// TestPredicateIndex_RandomAgainstModel drives the index with random
// inserts and erases and compares it with a map after every step.
func TestPredicateIndex_RandomAgainstModel(t *testing.T) {
	for _, arity := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("arity%d", arity), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(arity)))
			alphabet := []string{"a", "b", "c", "d", "e"}
			randTuple := func() Tuple {
				names := make([]string, arity)
				for i := range names {
					names[i] = alphabet[rng.Intn(len(alphabet))]
				}
				return TupleOf(names...)
			}

			ix := NewPredicateIndex(arity)
			model := make(map[string]Tuple)
			for step := 0; step < 2000; step++ {
				tp := randTuple()
				_, present := model[tp.String()]
				if rng.Intn(3) == 0 {
					require.Equal(t, present, ix.Erase(tp), "step %d erase %v", step, tp)
					delete(model, tp.String())
				} else {
					require.Equal(t, !present, ix.Insert(tp), "step %d insert %v", step, tp)
					model[tp.String()] = tp
				}
				require.Equal(t, len(model), ix.Len())

				if step%50 == 0 {
					var got []string
					for x := range ix.All() {
						require.Contains(t, model, x.String())
						got = append(got, x.String())
					}
					require.Len(t, got, len(model))
					for _, m := range model {
						require.True(t, ix.Contains(m), "step %d lost %v", step, m)
					}
				}
			}
		})
	}
}

func TestPredicateIndex_AllOrderAndAt(t *testing.T) {
	ix := NewPredicateIndex(1)
	for _, s := range []string{"m", "c", "x", "a", "z"} {
		ix.Insert(TupleOf(s))
	}
	var got []string
	for tp := range ix.All() {
		got = append(got, string(tp.At(0)))
	}
	// Unary keys make in-order iteration sorted.
	assert.Equal(t, []string{"a", "c", "m", "x", "z"}, got)

	for i, s := range got {
		tp, ok := ix.At(i)
		require.True(t, ok)
		assert.Equal(t, s, string(tp.At(0)))
	}
	_, ok := ix.At(len(got))
	assert.False(t, ok)

	// Early termination.
	n := 0
	for range ix.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestPredicateIndex_CloneIsIndependent(t *testing.T) {
	ix := NewPredicateIndex(2)
	ix.Insert(TupleOf("a", "b"))
	ix.Insert(TupleOf("c", "d"))

	c := ix.Clone()
	c.Erase(TupleOf("a", "b"))
	c.Insert(TupleOf("e", "f"))

	assert.True(t, ix.Contains(TupleOf("a", "b")))
	assert.False(t, ix.Contains(TupleOf("e", "f")))
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 2, c.Len())
}

func TestPredicateIndex_ReusesFreedNodes(t *testing.T) {
	ix := NewPredicateIndex(1)
	names := []string{"d", "b", "f", "a", "c", "e", "g"}
	for _, s := range names {
		ix.Insert(TupleOf(s))
	}
	arena := len(ix.nodes)
	for _, s := range names[:3] {
		ix.Erase(TupleOf(s))
	}
	for _, s := range []string{"h", "i", "j"} {
		ix.Insert(TupleOf(s))
	}
	assert.Equal(t, arena, len(ix.nodes))

	var got []string
	for tp := range ix.All() {
		got = append(got, string(tp.At(0)))
	}
	assert.True(t, slices.IsSorted(got))
	assert.Equal(t, 7, ix.Len())
	assert.LessOrEqual(t, ix.depth(), 7)
}

func TestPredicateIndex_Reset(t *testing.T) {
	ix := NewPredicateIndex(1)
	ix.Insert(TupleOf("a"))
	ix.Reset()
	assert.Equal(t, 0, ix.Len())
	assert.False(t, ix.Contains(TupleOf("a")))
	assert.True(t, ix.Insert(TupleOf("a")))
}
