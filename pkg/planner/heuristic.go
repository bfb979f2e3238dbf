package planner

import (
	"context"
	"fmt"
	"strings"
)

// HeuristicKind selects a heuristic variant.
type HeuristicKind int

const (
	// HeuristicZero is the blind heuristic; AStar then behaves as uniform
	// cost search.
	HeuristicZero HeuristicKind = iota
	// HeuristicDeleteRelaxation solves the problem without delete effects
	// from the evaluated state.
	HeuristicDeleteRelaxation
	// HeuristicCriticalPath is h^m: the most expensive size-m subset of the
	// goal, each solved exactly from the evaluated state.
	HeuristicCriticalPath
)

var heuristicNames = map[HeuristicKind]string{
	HeuristicZero:             "zero",
	HeuristicDeleteRelaxation: "delete-relaxation",
	HeuristicCriticalPath:     "critical-path",
}

func (k HeuristicKind) String() string {
	if n, ok := heuristicNames[k]; ok {
		return n
	}
	return fmt.Sprintf("HeuristicKind(%d)", int(k))
}

// Heuristic is an admissible estimate of the remaining plan cost.
// Power is only meaningful for HeuristicCriticalPath.
type Heuristic struct {
	Kind  HeuristicKind
	Power int
}

// Zero returns the blind heuristic.
func Zero() Heuristic { return Heuristic{Kind: HeuristicZero} }

// DeleteRelaxation returns the delete relaxation heuristic.
func DeleteRelaxation() Heuristic { return Heuristic{Kind: HeuristicDeleteRelaxation} }

// CriticalPath returns h^m. m is checked against the goal when the search
// starts.
func CriticalPath(m int) Heuristic { return Heuristic{Kind: HeuristicCriticalPath, Power: m} }

func (h Heuristic) String() string {
	if h.Kind == HeuristicCriticalPath {
		return fmt.Sprintf("%s(%d)", h.Kind, h.Power)
	}
	return h.Kind.String()
}

// ParseHeuristic maps a heuristic name to its variant. power is used by
// critical-path only.
func ParseHeuristic(name string, power int) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zero", "none", "blind":
		return Zero(), nil
	case "delete-relaxation", "delete_relaxation", "relaxed":
		return DeleteRelaxation(), nil
	case "critical-path", "critical_path", "hm":
		return CriticalPath(power), nil
	}
	return Heuristic{}, fmt.Errorf("planner: unknown heuristic %q", name)
}

type estimate struct {
	h    uint
	dead bool
}

// evaluator computes heuristic values for one search. Everything that only
// depends on the problem is prepared once.
type evaluator struct {
	h        Heuristic
	problem  *Problem
	relaxed  *Problem   // delete relaxation
	monotone bool       // no negated preconditions: relaxed failure proves a dead end
	subGoals []*Problem // critical path, one per goal subset
	cache    map[string]estimate
	monitor  *SearchMonitor
}

func newEvaluator(p *Problem, h Heuristic, m *SearchMonitor) (*evaluator, error) {
	e := &evaluator{h: h, problem: p, cache: make(map[string]estimate), monitor: m}
	switch h.Kind {
	case HeuristicZero:
	case HeuristicDeleteRelaxation:
		e.relaxed = p.DeleteRelax()
		e.monotone = !p.Domain().hasNegatedPreconds()
	case HeuristicCriticalPath:
		n := p.Goal().Len()
		if h.Power < 1 || h.Power > n {
			return nil, invalidf("AStar", h.String(), ErrInvalidPower, "power must be in [1, %d]", n)
		}
		type fact struct {
			slot int
			t    Tuple
		}
		facts := make([]fact, 0, n)
		for i := range n {
			slot, t, _ := p.Goal().At(i)
			facts = append(facts, fact{slot, t})
		}
		for pos := range Subsets(n, h.Power) {
			goal := p.Domain().NewState()
			for _, i := range pos {
				goal.Add(facts[i].slot, facts[i].t)
			}
			e.subGoals = append(e.subGoals, p.WithGoal(goal))
		}
	default:
		return nil, invalid("AStar", h.String(), fmt.Errorf("unsupported heuristic kind %d", int(h.Kind)))
	}
	return e, nil
}

// nestedCost solves sub from st with the blind heuristic. found is false
// when no plan exists.
func nestedCost(ctx context.Context, sub *Problem, st *State) (cost uint, found bool, nodes int, err error) {
	plan, err := search(ctx, sub.WithInitial(st), nil, newSolveConfig(nil), NewSearchMonitor())
	if err != nil {
		return 0, false, plan.Stats.NodesExpanded, err
	}
	return plan.Cost, plan.Found, plan.Stats.NodesExpanded, nil
}

// estimate returns the heuristic value of st, whose canonical key is key.
func (e *evaluator) estimate(ctx context.Context, st *State, key string) (estimate, error) {
	if e == nil || e.h.Kind == HeuristicZero {
		return estimate{}, nil
	}
	if v, ok := e.cache[key]; ok {
		e.monitor.RecordHeuristic(true, 0)
		return v, nil
	}

	var v estimate
	nodes := 0
	switch e.h.Kind {
	case HeuristicDeleteRelaxation:
		cost, found, n, err := nestedCost(ctx, e.relaxed, st)
		nodes += n
		if err != nil {
			return estimate{}, err
		}
		// Without deletes a negated precondition can stay false forever, so
		// an unsolvable relaxation only proves a dead end in monotone domains.
		switch {
		case found:
			v = estimate{h: cost}
		case e.monotone:
			v = estimate{dead: true}
		}
	case HeuristicCriticalPath:
		for _, sub := range e.subGoals {
			cost, found, n, err := nestedCost(ctx, sub, st)
			nodes += n
			if err != nil {
				return estimate{}, err
			}
			if !found {
				v = estimate{dead: true}
				break
			}
			v.h = max(v.h, cost)
		}
	}
	e.monitor.RecordHeuristic(false, nodes)
	e.cache[key] = v
	return v, nil
}
