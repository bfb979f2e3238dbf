// Package pddl reads a STRIPS subset of PDDL into planner domains and
// problems.
//
// Supported: typed or untyped :constants, :predicates and :parameters
// (types are ignored), preconditions built from and/not/atoms, effects
// built from and/not/atoms/when, and a constant (increase (total-cost) N)
// which sets the action cost. :requirements, :types, :functions and
// :metric are accepted and ignored. Keywords are case-insensitive; names
// are kept as written.
package pddl

import (
	"io"
	"strconv"
	"strings"

	"github.com/gitrdm/goplan/pkg/planner"
)

// ParseDomain reads a (define (domain ...)) form.
func ParseDomain(r io.Reader) (*planner.Domain, error) {
	root, err := read(r)
	if err != nil {
		return nil, err
	}
	name, sections, err := definition(root, "domain")
	if err != nil {
		return nil, err
	}
	d := planner.NewDomain(name)
	for _, sec := range sections {
		switch sec.head() {
		case ":requirements", ":types", ":functions":
		case ":constants":
			for _, c := range untyped(sec.list[1:]) {
				if err := d.AddConstant(c.atom); err != nil {
					return nil, rejected(c, "constant", err)
				}
			}
		case ":predicates":
			for _, p := range sec.list[1:] {
				if !p.isList() || p.head() == "" {
					return nil, syntaxErr(p, "predicate declaration must be a list, got %s", p)
				}
				if err := d.AddPredicate(p.list[0].atom, len(untyped(p.list[1:]))); err != nil {
					return nil, rejected(p, "predicate", err)
				}
			}
		case ":action":
			if err := parseAction(d, sec); err != nil {
				return nil, err
			}
		default:
			return nil, syntaxErr(sec, "unsupported domain section %s", sec.head())
		}
	}
	return d, nil
}

// definition checks (define (kind name) sections...) and returns the name
// and the sections.
func definition(root *node, kind string) (string, []*node, error) {
	if root.head() != "define" || len(root.list) < 2 {
		return "", nil, syntaxErr(root, "expected (define (%s ...) ...)", kind)
	}
	hdr := root.list[1]
	if hdr.head() != kind || len(hdr.list) != 2 || hdr.list[1].isList() {
		return "", nil, syntaxErr(hdr, "expected (%s NAME)", kind)
	}
	sections := root.list[2:]
	for _, s := range sections {
		if !s.isList() || !strings.HasPrefix(s.head(), ":") {
			return "", nil, syntaxErr(s, "expected a :section, got %s", s)
		}
	}
	return hdr.list[1].atom, sections, nil
}

// untyped drops "- type" annotations from a typed list.
func untyped(items []*node) []*node {
	var out []*node
	for i := 0; i < len(items); i++ {
		if !items[i].isList() && items[i].atom == "-" {
			i++
			continue
		}
		out = append(out, items[i])
	}
	return out
}

func variable(n *node) (string, bool) {
	if n.isList() || !strings.HasPrefix(n.atom, "?") || len(n.atom) < 2 {
		return "", false
	}
	return n.atom[1:], true
}

func parseAction(d *planner.Domain, sec *node) error {
	if len(sec.list) < 2 || sec.list[1].isList() {
		return syntaxErr(sec, ":action needs a name")
	}
	name := sec.list[1].atom
	if err := d.AddAction(name); err != nil {
		return rejected(sec, "action", err)
	}
	rest := sec.list[2:]
	if len(rest)%2 != 0 {
		return syntaxErr(sec, "action %s: expected :keyword value pairs", name)
	}
	for i := 0; i < len(rest); i += 2 {
		key, val := rest[i], rest[i+1]
		if key.isList() {
			return syntaxErr(key, "action %s: expected a keyword, got %s", name, key)
		}
		var err error
		switch strings.ToLower(key.atom) {
		case ":parameters":
			err = parseParameters(d, name, val)
		case ":precondition":
			err = parsePrecondition(d, name, val)
		case ":effect":
			err = parseEffect(d, name, val)
		default:
			err = syntaxErr(key, "action %s: unsupported keyword %s", name, key.atom)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func parseParameters(d *planner.Domain, action string, val *node) error {
	if !val.isList() {
		return syntaxErr(val, "action %s: :parameters must be a list", action)
	}
	for _, p := range untyped(val.list) {
		v, ok := variable(p)
		if !ok {
			return syntaxErr(p, "action %s: parameter %s must start with '?'", action, p)
		}
		if err := d.AddActionParam(action, v); err != nil {
			return rejected(p, "parameter", err)
		}
	}
	return nil
}

// conjuncts flattens (and ...) into its members; () is empty.
func conjuncts(n *node) []*node {
	if n.isList() && len(n.list) == 0 {
		return nil
	}
	if n.head() == "and" {
		var out []*node
		for _, c := range n.list[1:] {
			out = append(out, conjuncts(c)...)
		}
		return out
	}
	return []*node{n}
}

// literal converts (p ?x ...) or (not (p ?x ...)).
func literal(n *node) (planner.Literal, error) {
	var lit planner.Literal
	if n.head() == "not" {
		if len(n.list) != 2 {
			return lit, syntaxErr(n, "not takes exactly one atom")
		}
		lit.Negated = true
		n = n.list[1]
	}
	switch h := n.head(); h {
	case "":
		return lit, syntaxErr(n, "expected an atom, got %s", n)
	case "and", "or", "not", "imply", "exists", "forall", "when", "=":
		return lit, syntaxErr(n, "unsupported construct %s", h)
	}
	lit.Predicate = n.list[0].atom
	for _, a := range n.list[1:] {
		v, ok := variable(a)
		if !ok {
			return lit, syntaxErr(a, "argument %s of %s must be an action parameter", a, lit.Predicate)
		}
		lit.Params = append(lit.Params, v)
	}
	return lit, nil
}

func literals(n *node) ([]planner.Literal, error) {
	var out []planner.Literal
	for _, c := range conjuncts(n) {
		lit, err := literal(c)
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
	}
	return out, nil
}

func parsePrecondition(d *planner.Domain, action string, val *node) error {
	for _, c := range conjuncts(val) {
		lit, err := literal(c)
		if err != nil {
			return err
		}
		if err := d.AddActionPrecond(action, lit.Predicate, lit.Negated, lit.Params...); err != nil {
			return rejected(c, "precondition", err)
		}
	}
	return nil
}

func parseEffect(d *planner.Domain, action string, val *node) error {
	for _, c := range conjuncts(val) {
		switch c.head() {
		case "when":
			if len(c.list) != 3 {
				return syntaxErr(c, "when takes a condition and an effect")
			}
			pre, err := literals(c.list[1])
			if err != nil {
				return err
			}
			eff, err := literals(c.list[2])
			if err != nil {
				return err
			}
			if err := d.AddActionCondEffect(action, pre, eff); err != nil {
				return rejected(c, "conditional effect", err)
			}
		case "increase":
			cost, err := totalCost(c)
			if err != nil {
				return err
			}
			if err := d.SetActionCost(action, cost); err != nil {
				return rejected(c, "action cost", err)
			}
		default:
			lit, err := literal(c)
			if err != nil {
				return err
			}
			if err := d.AddActionEffect(action, lit.Predicate, lit.Negated, lit.Params...); err != nil {
				return rejected(c, "effect", err)
			}
		}
	}
	return nil
}

// totalCost reads (increase (total-cost) N).
func totalCost(n *node) (uint, error) {
	if len(n.list) != 3 || n.list[1].head() != "total-cost" || len(n.list[1].list) != 1 || n.list[2].isList() {
		return 0, syntaxErr(n, "only (increase (total-cost) N) is supported, got %s", n)
	}
	v, err := strconv.ParseUint(n.list[2].atom, 10, 0)
	if err != nil {
		return 0, syntaxErr(n.list[2], "invalid action cost %q", n.list[2].atom)
	}
	return uint(v), nil
}
