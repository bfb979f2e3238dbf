package planner

import (
	"fmt"
	"strings"
)

// Literal names a predicate applied to action parameters, possibly negated.
// It is the builder-level form used to declare conditional effects.
type Literal struct {
	Predicate string
	Negated   bool
	Params    []string
}

// Atom is a literal compiled against a domain: the predicate is resolved to
// its state slot and parameter names to local parameter positions.
type Atom struct {
	Slot    int
	Nullary Symbol // predicate name when Slot is the nullary slot
	Negated bool
	Params  []int
}

// CondEffect is a conditional effect block: Effects apply only when every
// one of Preconds holds in the state the action is applied to.
type CondEffect struct {
	Preconds []Atom
	Effects  []Atom
}

// ActionSchema is a parametrized action template.
type ActionSchema struct {
	name        Symbol
	cost        uint
	params      map[string]int
	paramNames  []string
	preconds    []Atom
	effects     []Atom
	condEffects []CondEffect
}

// DefaultActionCost is the cost of an action whose cost was never set.
const DefaultActionCost uint = 1

func newActionSchema(name string) *ActionSchema {
	return &ActionSchema{
		name:   Symbol(name),
		cost:   DefaultActionCost,
		params: make(map[string]int),
	}
}

// Name returns the action name.
func (a *ActionSchema) Name() Symbol { return a.name }

// Arity returns the number of parameters.
func (a *ActionSchema) Arity() int { return len(a.paramNames) }

// Cost returns the action cost.
func (a *ActionSchema) Cost() uint { return a.cost }

// Params returns the parameter names in declaration order.
func (a *ActionSchema) Params() []string {
	return append([]string(nil), a.paramNames...)
}

// Preconditions returns the unconditional preconditions.
func (a *ActionSchema) Preconditions() []Atom { return cloneAtoms(a.preconds) }

// Effects returns the unconditional effects.
func (a *ActionSchema) Effects() []Atom { return cloneAtoms(a.effects) }

// CondEffects returns the conditional effect blocks.
func (a *ActionSchema) CondEffects() []CondEffect {
	out := make([]CondEffect, len(a.condEffects))
	for i, ce := range a.condEffects {
		out[i] = CondEffect{Preconds: cloneAtoms(ce.Preconds), Effects: cloneAtoms(ce.Effects)}
	}
	return out
}

func cloneAtoms(in []Atom) []Atom {
	if in == nil {
		return nil
	}
	out := make([]Atom, len(in))
	for i, at := range in {
		at.Params = append([]int(nil), at.Params...)
		out[i] = at
	}
	return out
}

func (a *ActionSchema) addParam(name string) error {
	if _, dup := a.params[name]; dup {
		return invalid("AddActionParam", name, ErrDuplicateParameter)
	}
	a.params[name] = len(a.paramNames)
	a.paramNames = append(a.paramNames, name)
	return nil
}

// paramIndexes resolves parameter names to local positions.
func (a *ActionSchema) paramIndexes(op string, names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		p, ok := a.params[n]
		if !ok {
			return nil, invalidf(op, n, ErrUnknownParameter, "action %s", a.name)
		}
		idx[i] = p
	}
	return idx, nil
}

func ground(at Atom, args []Symbol) Tuple {
	if at.Slot == 0 {
		return Tuple{syms: []Symbol{at.Nullary}}
	}
	syms := make([]Symbol, len(at.Params))
	for i, p := range at.Params {
		syms[i] = args[p]
	}
	return Tuple{syms: syms}
}

// holds reports whether every atom is satisfied in st.
func holds(st *State, atoms []Atom, args []Symbol) bool {
	for _, at := range atoms {
		if st.Contains(at.Slot, ground(at, args)) == at.Negated {
			return false
		}
	}
	return true
}

func applyAtoms(st *State, atoms []Atom, args []Symbol) {
	for _, at := range atoms {
		t := ground(at, args)
		if at.Negated {
			st.Erase(at.Slot, t)
		} else {
			st.Add(at.Slot, t)
		}
	}
}

// Apply grounds the action with args and applies it to st.
//
// ok is false when the preconditions do not hold; this is a normal outcome,
// not an error. st is never modified. Conditional blocks are evaluated
// against st itself, so one block's effects never enable another block.
func (a *ActionSchema) Apply(st *State, args []Symbol) (next *State, ok bool, err error) {
	if len(args) != len(a.paramNames) {
		return nil, false, invalidf("Apply", string(a.name), ErrArityMismatch,
			"expected %d arguments, got %d", len(a.paramNames), len(args))
	}
	if !holds(st, a.preconds, args) {
		return nil, false, nil
	}

	next = st.Clone()
	applyAtoms(next, a.effects, args)
	for _, ce := range a.condEffects {
		if holds(st, ce.Preconds, args) {
			applyAtoms(next, ce.Effects, args)
		}
	}
	return next, true, nil
}

// DeleteRelax returns a copy of the schema without negative effects, both
// unconditional and inside conditional blocks. Preconditions are kept.
func (a *ActionSchema) DeleteRelax() *ActionSchema {
	r := &ActionSchema{
		name:       a.name,
		cost:       a.cost,
		params:     make(map[string]int, len(a.params)),
		paramNames: append([]string(nil), a.paramNames...),
		preconds:   cloneAtoms(a.preconds),
		effects:    positiveOnly(a.effects),
	}
	for k, v := range a.params {
		r.params[k] = v
	}
	for _, ce := range a.condEffects {
		r.condEffects = append(r.condEffects, CondEffect{
			Preconds: cloneAtoms(ce.Preconds),
			Effects:  positiveOnly(ce.Effects),
		})
	}
	return r
}

func positiveOnly(atoms []Atom) []Atom {
	var out []Atom
	for _, at := range atoms {
		if !at.Negated {
			at.Params = append([]int(nil), at.Params...)
			out = append(out, at)
		}
	}
	return out
}

func (a *ActionSchema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s)", a.name, strings.Join(a.paramNames, ", "))
	if a.cost != DefaultActionCost {
		fmt.Fprintf(&b, " cost=%d", a.cost)
	}
	return b.String()
}
