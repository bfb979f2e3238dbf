package planner

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// State is the set of ground facts that currently hold.
//
// Facts are stored per predicate slot: slot 0 is reserved for nullary
// predicates (stored as the 1-tuple of the predicate name) and every other
// slot belongs to exactly one declared predicate. States built for the same
// domain share the same slot layout.
//
// Thread safety: a State is not safe for concurrent mutation. Solver code
// never mutates a state after it has been recorded.
type State struct {
	slots []*PredicateIndex
	size  int
}

// NewState creates an empty state with one index per slot arity.
func NewState(arities []int) *State {
	s := &State{slots: make([]*PredicateIndex, len(arities))}
	for i, a := range arities {
		s.slots[i] = NewPredicateIndex(a)
	}
	return s
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{slots: make([]*PredicateIndex, len(s.slots)), size: s.size}
	for i, ix := range s.slots {
		c.slots[i] = ix.Clone()
	}
	return c
}

// Reset removes every fact, keeping the slot layout.
func (s *State) Reset() {
	for _, ix := range s.slots {
		ix.Reset()
	}
	s.size = 0
}

// Len returns the number of facts.
func (s *State) Len() int {
	return s.size
}

// Slots returns the number of predicate slots.
func (s *State) Slots() int {
	return len(s.slots)
}

// Arities returns the per-slot tuple arities.
func (s *State) Arities() []int {
	out := make([]int, len(s.slots))
	for i, ix := range s.slots {
		out[i] = ix.Arity()
	}
	return out
}

// SlotLen returns the number of facts stored in one slot.
func (s *State) SlotLen(slot int) int {
	if slot < 0 || slot >= len(s.slots) {
		return 0
	}
	return s.slots[slot].Len()
}

// Add inserts a fact. The fact count only grows when the fact is new.
func (s *State) Add(slot int, t Tuple) {
	if s.slots[slot].Insert(t) {
		s.size++
	}
}

// Erase removes a fact that must be present. Erasing an absent fact is a
// logic error in the caller and panics.
func (s *State) Erase(slot int, t Tuple) {
	if !s.slots[slot].Erase(t) {
		panic(fmt.Sprintf("planner: erasing absent fact %v from slot %d", t, slot))
	}
	s.size--
}

// Contains reports whether a fact holds.
func (s *State) Contains(slot int, t Tuple) bool {
	if slot < 0 || slot >= len(s.slots) {
		return false
	}
	return s.slots[slot].Contains(t)
}

// Included reports whether every fact of s also holds in other.
// With s a goal, this is the goal test: extra facts in other are allowed.
func (s *State) Included(other *State) bool {
	for slot, ix := range s.slots {
		for t := range ix.All() {
			if !other.Contains(slot, t) {
				return false
			}
		}
	}
	return true
}

// Equal reports set equality of the facts of both states.
func (s *State) Equal(other *State) bool {
	return s.size == other.size && s.Included(other) && other.Included(s)
}

// Facts yields every fact as (slot, tuple), in slot order and then in each
// slot's iteration order.
func (s *State) Facts() iter.Seq2[int, Tuple] {
	return func(yield func(int, Tuple) bool) {
		for slot, ix := range s.slots {
			for t := range ix.All() {
				if !yield(slot, t) {
					return
				}
			}
		}
	}
}

// At returns the i-th fact in Facts order.
func (s *State) At(i int) (int, Tuple, bool) {
	if i < 0 || i >= s.size {
		return 0, Tuple{}, false
	}
	for slot, ix := range s.slots {
		if i < ix.Len() {
			t, ok := ix.At(i)
			return slot, t, ok
		}
		i -= ix.Len()
	}
	return 0, Tuple{}, false
}

// Key returns a canonical encoding of the fact set. Two states have the
// same key exactly when they are Equal.
func (s *State) Key() string {
	var b strings.Builder
	var buf []Tuple
	for slot, ix := range s.slots {
		if ix.Len() == 0 {
			continue
		}
		buf = buf[:0]
		for t := range ix.All() {
			buf = append(buf, t)
		}
		slices.SortFunc(buf, Tuple.Compare)
		b.WriteString(strconv.Itoa(slot))
		b.WriteByte(':')
		for _, t := range buf {
			t.appendKey(&b)
			b.WriteByte(1)
		}
		b.WriteByte(2)
	}
	return b.String()
}

// String renders one line per non-empty slot.
func (s *State) String() string {
	var b strings.Builder
	for slot, ix := range s.slots {
		if ix.Len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "%d:", slot)
		for t := range ix.All() {
			b.WriteByte(' ')
			b.WriteString(t.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
