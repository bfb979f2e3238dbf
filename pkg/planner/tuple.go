package planner

import "strings"

// Symbol is an opaque atomic name: an object, predicate or action identifier.
type Symbol string

// Tuple is an immutable, fixed-arity ordered sequence of symbols.
// The zero Tuple has arity 0.
type Tuple struct {
	syms []Symbol
}

// NewTuple builds a tuple from the given symbols. The slice is copied.
func NewTuple(syms ...Symbol) Tuple {
	if len(syms) == 0 {
		return Tuple{}
	}
	return Tuple{syms: append([]Symbol(nil), syms...)}
}

// TupleOf builds a tuple from plain strings.
func TupleOf(names ...string) Tuple {
	syms := make([]Symbol, len(names))
	for i, n := range names {
		syms[i] = Symbol(n)
	}
	return Tuple{syms: syms}
}

// Arity returns the number of elements.
func (t Tuple) Arity() int {
	return len(t.syms)
}

// At returns the i-th element.
func (t Tuple) At(i int) Symbol {
	return t.syms[i]
}

// Symbols returns a copy of the elements.
func (t Tuple) Symbols() []Symbol {
	return append([]Symbol(nil), t.syms...)
}

// Equal reports element-wise equality.
func (t Tuple) Equal(other Tuple) bool {
	if len(t.syms) != len(other.syms) {
		return false
	}
	for i := range t.syms {
		if t.syms[i] != other.syms[i] {
			return false
		}
	}
	return true
}

// Compare orders tuples lexicographically, shorter first on a common prefix.
func (t Tuple) Compare(other Tuple) int {
	n := min(len(t.syms), len(other.syms))
	for i := 0; i < n; i++ {
		if c := strings.Compare(string(t.syms[i]), string(other.syms[i])); c != 0 {
			return c
		}
	}
	switch {
	case len(t.syms) < len(other.syms):
		return -1
	case len(t.syms) > len(other.syms):
		return 1
	}
	return 0
}

// String renders the tuple as "(a, b, c)".
func (t Tuple) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, s := range t.syms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(s))
	}
	b.WriteByte(')')
	return b.String()
}

// appendKey writes an unambiguous encoding of the tuple to b.
// Symbols are NUL-terminated; they never contain NUL themselves.
func (t Tuple) appendKey(b *strings.Builder) {
	for _, s := range t.syms {
		b.WriteString(string(s))
		b.WriteByte(0)
	}
}
