package planner

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Plan is the result of a search.
//
// When Found is false the sequences are empty and Cost is zero. Otherwise
// States runs from the initial state to a goal state and Actions[i], of the
// form [name, arg1, ..., argk], leads from States[i] to States[i+1].
type Plan struct {
	Found   bool
	States  []*State
	Actions [][]Symbol
	Cost    uint
	Stats   SearchStats
}

// Steps returns the number of actions in the plan.
func (p *Plan) Steps() int { return len(p.Actions) }

// FormatAction renders a plan step as "(name arg1 ... argk)".
func FormatAction(label []Symbol) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, s := range label {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(s))
	}
	b.WriteByte(')')
	return b.String()
}

// frontierEntry is a pushed (state, g) pair; seq orders ties FIFO.
type frontierEntry struct {
	key string
	g   uint
	f   uint
	seq uint64
}

type frontier []frontierEntry

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(frontierEntry)) }
func (q *frontier) Pop() any {
	old := *q
	e := old[len(old)-1]
	*q = old[:len(old)-1]
	return e
}

// record is the predecessor table entry of a reached state.
type record struct {
	state  *State
	parent string
	root   bool
	g      uint
	label  []Symbol
}

// AStar searches for a minimum-cost plan from the problem's initial state
// to any state that includes its goal.
//
// Contract:
//   - With an admissible heuristic the returned plan is optimal.
//   - When no plan exists, AStar returns a Plan with Found == false and a
//     nil error.
//   - A CriticalPath power outside [1, goal size] is rejected with a
//     *ValidationError before any search work.
//   - When ctx is done or the time limit expires, the ctx error is
//     returned; a reached node limit returns ErrSearchLimitReached. The
//     returned Plan always carries the statistics gathered so far.
//
// Successors are generated by actions in name order and, per action, by
// argument tuples with the last parameter varying fastest. Among frontier
// entries of equal f the earliest pushed is expanded first.
func AStar(ctx context.Context, p *Problem, h Heuristic, opts ...SolveOption) (*Plan, error) {
	cfg := newSolveConfig(opts)
	if cfg.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeLimit)
		defer cancel()
	}
	mon := cfg.monitor
	if mon == nil {
		mon = NewSearchMonitor()
	}

	eval, err := newEvaluator(p, h, mon)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("search started",
		zap.String("problem", p.Name()),
		zap.String("heuristic", h.String()),
		zap.Int("objects", len(p.objects)),
		zap.Int("actions", p.Domain().NumActions()))

	plan, err := search(ctx, p, eval, cfg, mon)

	fields := []zap.Field{
		zap.String("problem", p.Name()),
		zap.Bool("found", plan.Found),
		zap.Uint("cost", plan.Cost),
		zap.Int("expanded", plan.Stats.NodesExpanded),
		zap.Int("generated", plan.Stats.NodesGenerated),
		zap.Duration("elapsed", plan.Stats.SearchTime),
	}
	if err != nil {
		cfg.logger.Debug("search stopped", append(fields, zap.Error(err))...)
	} else {
		cfg.logger.Debug("search finished", fields...)
	}
	return plan, err
}

// search is the best-first loop shared by AStar and the nested heuristic
// searches. A nil evaluator is the blind heuristic. The returned plan is
// never nil.
func search(ctx context.Context, p *Problem, eval *evaluator, cfg *solveConfig, mon *SearchMonitor) (*Plan, error) {
	goal := p.Goal()
	objs := p.objects
	var actions []*ActionSchema
	for a := range p.Domain().Actions() {
		actions = append(actions, a)
	}

	done := func(plan *Plan) *Plan {
		mon.FinishSearch()
		plan.Stats = mon.GetStats()
		return plan
	}

	table := make(map[string]*record)
	q := &frontier{}
	var seq uint64
	push := func(key string, g, h uint) {
		heap.Push(q, frontierEntry{key: key, g: g, f: g + h, seq: seq})
		seq++
	}

	start := p.Initial()
	startKey := start.Key()
	est, err := eval.estimate(ctx, start, startKey)
	if err != nil {
		return done(&Plan{}), err
	}
	table[startKey] = &record{state: start, root: true}
	if est.dead {
		mon.RecordDeadEnd()
		return done(&Plan{}), nil
	}
	push(startKey, 0, est.h)

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return done(&Plan{}), err
		}
		cur := heap.Pop(q).(frontierEntry)
		rec := table[cur.key]
		if cur.g > rec.g {
			mon.RecordStale()
			continue
		}

		if goal.Included(rec.state) {
			return done(reconstruct(table, cur.key)), nil
		}
		if cfg.nodeLimit > 0 && mon.GetStats().NodesExpanded >= cfg.nodeLimit {
			return done(&Plan{}), ErrSearchLimitReached
		}
		mon.RecordExpansion(q.Len() + 1)
		if cfg.trace {
			cfg.logger.Debug("expand",
				zap.Uint("g", cur.g),
				zap.Uint("f", cur.f),
				zap.Int("frontier", q.Len()),
				zap.Stringer("state", rec.state))
		}

		for _, a := range actions {
			for args := range Assignments(objs, a.Arity()) {
				next, ok, err := a.Apply(rec.state, args)
				if err != nil {
					return done(&Plan{}), err
				}
				if !ok {
					continue
				}
				mon.RecordGenerated()
				g := cur.g + a.Cost()
				key := next.Key()
				if old, seen := table[key]; seen {
					if g >= old.g {
						mon.RecordDuplicate()
						continue
					}
					mon.RecordReopened()
				}
				label := append([]Symbol{a.Name()}, args...)
				est, err := eval.estimate(ctx, next, key)
				if err != nil {
					return done(&Plan{}), err
				}
				if est.dead {
					mon.RecordDeadEnd()
					continue
				}
				table[key] = &record{state: next, parent: cur.key, g: g, label: label}
				push(key, g, est.h)
				if cfg.trace {
					cfg.logger.Debug("successor",
						zap.String("action", FormatAction(label)),
						zap.Uint("g", g),
						zap.Uint("h", est.h))
				}
			}
		}
	}
	return done(&Plan{}), nil
}

func reconstruct(table map[string]*record, key string) *Plan {
	plan := &Plan{Found: true}
	rec := table[key]
	plan.Cost = rec.g
	for {
		plan.States = append(plan.States, rec.state)
		if rec.root {
			break
		}
		plan.Actions = append(plan.Actions, rec.label)
		rec = table[rec.parent]
	}
	slices.Reverse(plan.States)
	slices.Reverse(plan.Actions)
	return plan
}

// String renders the plan as one line: "plan (cost N): (a x) (b y)" or
// "no plan".
func (p *Plan) String() string {
	if !p.Found {
		return "no plan"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "plan (cost %d):", p.Cost)
	for _, a := range p.Actions {
		b.WriteByte(' ')
		b.WriteString(FormatAction(a))
	}
	return b.String()
}
