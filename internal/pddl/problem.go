package pddl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gitrdm/goplan/pkg/planner"
)

// ParseProblem reads a (define (problem ...)) form over d. Objects are
// declared in d's symbol namespace.
func ParseProblem(r io.Reader, d *planner.Domain) (*planner.Problem, error) {
	root, err := read(r)
	if err != nil {
		return nil, err
	}
	name, sections, err := definition(root, "problem")
	if err != nil {
		return nil, err
	}
	p := planner.NewProblem(name, d)
	for _, sec := range sections {
		switch sec.head() {
		case ":domain":
			if len(sec.list) != 2 || sec.list[1].isList() {
				return nil, syntaxErr(sec, "expected (:domain NAME)")
			}
			if !strings.EqualFold(sec.list[1].atom, d.Name()) {
				return nil, syntaxErr(sec, "problem %s is for domain %s, not %s", name, sec.list[1].atom, d.Name())
			}
		case ":requirements", ":metric":
		case ":objects":
			for _, o := range untyped(sec.list[1:]) {
				if o.isList() {
					return nil, syntaxErr(o, "object names must be atoms, got %s", o)
				}
				if err := p.AddObject(o.atom); err != nil {
					return nil, rejected(o, "object", err)
				}
			}
		case ":init":
			for _, f := range sec.list[1:] {
				if f.head() == "=" {
					continue // numeric fluent initialisation such as (= (total-cost) 0)
				}
				pred, args, err := groundAtom(f)
				if err != nil {
					return nil, err
				}
				if err := p.GroundInit(pred, args...); err != nil {
					return nil, rejected(f, "initial fact", err)
				}
			}
		case ":goal":
			if len(sec.list) != 2 {
				return nil, syntaxErr(sec, "expected (:goal FORMULA)")
			}
			for _, f := range conjuncts(sec.list[1]) {
				pred, args, err := groundAtom(f)
				if err != nil {
					return nil, err
				}
				if err := p.GroundGoal(pred, args...); err != nil {
					return nil, rejected(f, "goal fact", err)
				}
			}
		default:
			return nil, syntaxErr(sec, "unsupported problem section %s", sec.head())
		}
	}
	return p, nil
}

// groundAtom reads a positive ground atom (p o1 ... ok).
func groundAtom(n *node) (string, []string, error) {
	switch h := n.head(); h {
	case "":
		return "", nil, syntaxErr(n, "expected a ground atom, got %s", n)
	case "not", "and", "or", "=":
		return "", nil, syntaxErr(n, "only positive ground atoms are supported here, got %s", n)
	}
	args := make([]string, 0, len(n.list)-1)
	for _, a := range n.list[1:] {
		if a.isList() || strings.HasPrefix(a.atom, "?") {
			return "", nil, syntaxErr(a, "argument %s must be an object", a)
		}
		args = append(args, a.atom)
	}
	return n.list[0].atom, args, nil
}

// LoadFiles parses a domain file and a problem file.
func LoadFiles(domainPath, problemPath string) (*planner.Problem, error) {
	df, err := os.Open(domainPath)
	if err != nil {
		return nil, err
	}
	defer df.Close()
	d, err := ParseDomain(df)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domainPath, err)
	}

	pf, err := os.Open(problemPath)
	if err != nil {
		return nil, err
	}
	defer pf.Close()
	p, err := ParseProblem(pf, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", problemPath, err)
	}
	return p, nil
}
