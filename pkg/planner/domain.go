package planner

import (
	"iter"
	"maps"
	"slices"
)

// NullarySlot is the state slot shared by all predicates of arity 0.
const NullarySlot = 0

type predicateInfo struct {
	arity int
	slot  int
}

// Domain registers predicates and action schemas.
//
// Every name declared in a domain (the domain name itself, predicates,
// actions, constants and the objects of problems built on it) lives in a
// single namespace: declaring a name twice is rejected.
//
// A predicate keeps the slot it was assigned for the lifetime of the
// domain. Slot 0 has arity 1 and holds every nullary predicate.
//
// Thread safety: Domains must be built sequentially and are read-only while
// problems over them are solved.
type Domain struct {
	name       string
	symbols    map[string]struct{}
	constants  []Symbol
	predicates map[string]predicateInfo
	actions    map[string]*ActionSchema
	arities    []int
}

// NewDomain creates an empty domain.
func NewDomain(name string) *Domain {
	return &Domain{
		name:       name,
		symbols:    map[string]struct{}{name: {}},
		predicates: make(map[string]predicateInfo),
		actions:    make(map[string]*ActionSchema),
		arities:    []int{1},
	}
}

// Name returns the domain name.
func (d *Domain) Name() string { return d.name }

// Constants returns the domain constants in declaration order.
func (d *Domain) Constants() []Symbol { return slices.Clone(d.constants) }

// Arities returns the tuple arity of every state slot.
func (d *Domain) Arities() []int { return slices.Clone(d.arities) }

// HasSymbol reports whether name is already declared.
func (d *Domain) HasSymbol(name string) bool {
	_, ok := d.symbols[name]
	return ok
}

// NewState returns an empty state laid out for this domain.
func (d *Domain) NewState() *State { return NewState(d.arities) }

// Action returns the schema of a declared action.
func (d *Domain) Action(name string) (*ActionSchema, bool) {
	a, ok := d.actions[name]
	return a, ok
}

// Actions yields the action schemas in name order.
func (d *Domain) Actions() iter.Seq[*ActionSchema] {
	return func(yield func(*ActionSchema) bool) {
		for _, name := range slices.Sorted(maps.Keys(d.actions)) {
			if !yield(d.actions[name]) {
				return
			}
		}
	}
}

// NumActions returns the number of declared actions.
func (d *Domain) NumActions() int { return len(d.actions) }

func (d *Domain) addSymbol(op, name string) error {
	if _, dup := d.symbols[name]; dup {
		return invalid(op, name, ErrDuplicateSymbol)
	}
	d.symbols[name] = struct{}{}
	return nil
}

// AddConstant declares a domain constant. Constants are objects of every
// problem built on the domain.
func (d *Domain) AddConstant(name string) error {
	if err := d.addSymbol("AddConstant", name); err != nil {
		return err
	}
	d.constants = append(d.constants, Symbol(name))
	return nil
}

// AddPredicate declares a predicate and assigns it a state slot.
func (d *Domain) AddPredicate(name string, arity int) error {
	if arity < 0 {
		return invalidf("AddPredicate", name, ErrArityMismatch, "negative arity %d", arity)
	}
	if err := d.addSymbol("AddPredicate", name); err != nil {
		return err
	}
	if arity == 0 {
		d.predicates[name] = predicateInfo{arity: 0, slot: NullarySlot}
		return nil
	}
	d.arities = append(d.arities, arity)
	d.predicates[name] = predicateInfo{arity: arity, slot: len(d.arities) - 1}
	return nil
}

// PredIndex resolves a predicate to its state slot, checking the arity.
func (d *Domain) PredIndex(name string, arity int) (int, error) {
	p, ok := d.predicates[name]
	if !ok {
		return 0, invalid("PredIndex", name, ErrUnknownPredicate)
	}
	if p.arity != arity {
		return 0, invalidf("PredIndex", name, ErrArityMismatch, "predicate takes %d arguments, got %d", p.arity, arity)
	}
	return p.slot, nil
}

// AddAction declares an action with no parameters and the default cost.
func (d *Domain) AddAction(name string) error {
	if err := d.addSymbol("AddAction", name); err != nil {
		return err
	}
	d.actions[name] = newActionSchema(name)
	return nil
}

func (d *Domain) action(op, name string) (*ActionSchema, error) {
	a, ok := d.actions[name]
	if !ok {
		return nil, invalid(op, name, ErrUnknownAction)
	}
	return a, nil
}

// SetActionCost sets the cost of an action.
func (d *Domain) SetActionCost(action string, cost uint) error {
	a, err := d.action("SetActionCost", action)
	if err != nil {
		return err
	}
	a.cost = cost
	return nil
}

// AddActionParam appends a formal parameter to an action.
func (d *Domain) AddActionParam(action, param string) error {
	a, err := d.action("AddActionParam", action)
	if err != nil {
		return err
	}
	return a.addParam(param)
}

// compile resolves a literal against the domain and the action's parameters.
func (d *Domain) compile(op string, a *ActionSchema, lit Literal) (Atom, error) {
	slot, err := d.PredIndex(lit.Predicate, len(lit.Params))
	if err != nil {
		ve := err.(*ValidationError)
		ve.Op = op
		return Atom{}, ve
	}
	idx, err := a.paramIndexes(op, lit.Params)
	if err != nil {
		return Atom{}, err
	}
	at := Atom{Slot: slot, Negated: lit.Negated, Params: idx}
	if slot == NullarySlot {
		at.Nullary = Symbol(lit.Predicate)
	}
	return at, nil
}

func (d *Domain) compileAll(op string, a *ActionSchema, lits []Literal) ([]Atom, error) {
	out := make([]Atom, 0, len(lits))
	for _, lit := range lits {
		at, err := d.compile(op, a, lit)
		if err != nil {
			return nil, err
		}
		out = append(out, at)
	}
	return out, nil
}

// AddActionPrecond adds an unconditional precondition.
func (d *Domain) AddActionPrecond(action, predicate string, negated bool, params ...string) error {
	const op = "AddActionPrecond"
	a, err := d.action(op, action)
	if err != nil {
		return err
	}
	at, err := d.compile(op, a, Literal{Predicate: predicate, Negated: negated, Params: params})
	if err != nil {
		return err
	}
	a.preconds = append(a.preconds, at)
	return nil
}

// AddActionEffect adds an unconditional effect; negated effects delete.
func (d *Domain) AddActionEffect(action, predicate string, negated bool, params ...string) error {
	const op = "AddActionEffect"
	a, err := d.action(op, action)
	if err != nil {
		return err
	}
	at, err := d.compile(op, a, Literal{Predicate: predicate, Negated: negated, Params: params})
	if err != nil {
		return err
	}
	a.effects = append(a.effects, at)
	return nil
}

// AddActionCondEffect adds a conditional effect block. The whole block is
// validated before anything is recorded.
func (d *Domain) AddActionCondEffect(action string, preconds, effects []Literal) error {
	const op = "AddActionCondEffect"
	a, err := d.action(op, action)
	if err != nil {
		return err
	}
	pre, err := d.compileAll(op, a, preconds)
	if err != nil {
		return err
	}
	eff, err := d.compileAll(op, a, effects)
	if err != nil {
		return err
	}
	a.condEffects = append(a.condEffects, CondEffect{Preconds: pre, Effects: eff})
	return nil
}

// hasNegatedPreconds reports whether any action tests a fact for absence,
// unconditionally or inside a conditional block.
func (d *Domain) hasNegatedPreconds() bool {
	for _, a := range d.actions {
		if anyNegated(a.preconds) {
			return true
		}
		for _, ce := range a.condEffects {
			if anyNegated(ce.Preconds) {
				return true
			}
		}
	}
	return false
}

func anyNegated(atoms []Atom) bool {
	for _, at := range atoms {
		if at.Negated {
			return true
		}
	}
	return false
}

// DeleteRelax returns an independent copy of the domain with the same
// symbols and slots in which every action has lost its negative effects.
func (d *Domain) DeleteRelax() *Domain {
	r := &Domain{
		name:       d.name,
		symbols:    maps.Clone(d.symbols),
		constants:  slices.Clone(d.constants),
		predicates: maps.Clone(d.predicates),
		actions:    make(map[string]*ActionSchema, len(d.actions)),
		arities:    slices.Clone(d.arities),
	}
	for name, a := range d.actions {
		r.actions[name] = a.DeleteRelax()
	}
	return r
}
