package planner

import (
	"maps"
	"slices"
)

// Problem pairs a domain with objects, an initial state and a goal.
//
// The domain is shared, not owned: objects added to a problem are declared
// in the domain's symbol namespace, so two problems over the same domain
// cannot reuse an object name.
type Problem struct {
	name    string
	domain  *Domain
	objects []Symbol
	known   map[Symbol]struct{}
	initial *State
	goal    *State
}

// NewProblem creates a problem whose objects start as the domain constants.
func NewProblem(name string, d *Domain) *Problem {
	p := &Problem{
		name:    name,
		domain:  d,
		objects: d.Constants(),
		known:   make(map[Symbol]struct{}),
		initial: d.NewState(),
		goal:    d.NewState(),
	}
	for _, c := range p.objects {
		p.known[c] = struct{}{}
	}
	return p
}

// Name returns the problem name.
func (p *Problem) Name() string { return p.name }

// Domain returns the shared domain.
func (p *Problem) Domain() *Domain { return p.domain }

// Objects returns constants then problem objects, in declaration order.
func (p *Problem) Objects() []Symbol { return slices.Clone(p.objects) }

// Initial returns the initial state. Callers must not mutate it.
func (p *Problem) Initial() *State { return p.initial }

// Goal returns the goal state. Callers must not mutate it.
func (p *Problem) Goal() *State { return p.goal }

// AddObject declares a problem object.
func (p *Problem) AddObject(name string) error {
	if err := p.domain.addSymbol("AddObject", name); err != nil {
		return err
	}
	p.objects = append(p.objects, Symbol(name))
	p.known[Symbol(name)] = struct{}{}
	return nil
}

func (p *Problem) groundFact(op, pred string, objs []string) (int, Tuple, error) {
	slot, err := p.domain.PredIndex(pred, len(objs))
	if err != nil {
		err.(*ValidationError).Op = op
		return 0, Tuple{}, err
	}
	for _, o := range objs {
		if _, ok := p.known[Symbol(o)]; !ok {
			return 0, Tuple{}, invalidf(op, o, ErrUnknownObject, "in %s", pred)
		}
	}
	if slot == NullarySlot {
		return slot, TupleOf(pred), nil
	}
	return slot, TupleOf(objs...), nil
}

// GroundInit adds pred(objs...) to the initial state.
func (p *Problem) GroundInit(pred string, objs ...string) error {
	slot, t, err := p.groundFact("GroundInit", pred, objs)
	if err != nil {
		return err
	}
	p.initial.Add(slot, t)
	return nil
}

// GroundGoal adds pred(objs...) to the goal.
func (p *Problem) GroundGoal(pred string, objs ...string) error {
	slot, t, err := p.groundFact("GroundGoal", pred, objs)
	if err != nil {
		return err
	}
	p.goal.Add(slot, t)
	return nil
}

// WithInitial returns a shallow copy of p starting from st.
func (p *Problem) WithInitial(st *State) *Problem {
	c := *p
	c.initial = st
	return &c
}

// WithGoal returns a shallow copy of p with goal st.
func (p *Problem) WithGoal(st *State) *Problem {
	c := *p
	c.goal = st
	return &c
}

// DeleteRelax returns a problem with the same objects and states over the
// delete-relaxed domain.
func (p *Problem) DeleteRelax() *Problem {
	return &Problem{
		name:    p.name,
		domain:  p.domain.DeleteRelax(),
		objects: slices.Clone(p.objects),
		known:   maps.Clone(p.known),
		initial: p.initial.Clone(),
		goal:    p.goal.Clone(),
	}
}
