package planner

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// shouldRunHeavy returns true when heavy/long-running tests should run even
// if the Go test suite is invoked in short mode. Set GOPLAN_FORCE_HEAVY=1
// (or "true") to override short-mode skips.
func shouldRunHeavy() bool {
	v := os.Getenv("GOPLAN_FORCE_HEAVY")
	return v == "1" || v == "true" || v == "TRUE" || v == "True"
}

func rooms(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("rm%d", i)
	}
	return out
}

// roomsDomain declares isIn/1, connected/2 and a move action of the given
// cost that requires a connection.
func roomsDomain(t testing.TB, moveCost uint) *Domain {
	t.Helper()
	d := NewDomain("rooms")
	require.NoError(t, d.AddPredicate("isIn", 1))
	require.NoError(t, d.AddPredicate("connected", 2))
	require.NoError(t, d.AddAction("move"))
	require.NoError(t, d.SetActionCost("move", moveCost))
	require.NoError(t, d.AddActionParam("move", "x"))
	require.NoError(t, d.AddActionParam("move", "y"))
	require.NoError(t, d.AddActionPrecond("move", "isIn", false, "x"))
	require.NoError(t, d.AddActionPrecond("move", "connected", false, "x", "y"))
	require.NoError(t, d.AddActionEffect("move", "isIn", false, "y"))
	require.NoError(t, d.AddActionEffect("move", "isIn", true, "x"))
	return d
}

func addObjects(t testing.TB, p *Problem, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, p.AddObject(n))
	}
}

// scenarioA is eight rooms and a goal in rm6 that also restates the map.
func scenarioA(t testing.TB) *Problem {
	t.Helper()
	d := roomsDomain(t, 1)
	p := NewProblem("rooms-a", d)
	addObjects(t, p, rooms(8)...)
	edges := [][2]string{
		{"rm0", "rm1"}, {"rm0", "rm3"}, {"rm1", "rm2"}, {"rm2", "rm4"},
		{"rm3", "rm5"}, {"rm4", "rm7"}, {"rm5", "rm6"}, {"rm6", "rm7"},
	}
	require.NoError(t, p.GroundInit("isIn", "rm0"))
	require.NoError(t, p.GroundGoal("isIn", "rm6"))
	for _, e := range edges {
		for _, pair := range [][2]string{e, {e[1], e[0]}} {
			require.NoError(t, p.GroundInit("connected", pair[0], pair[1]))
			require.NoError(t, p.GroundGoal("connected", pair[0], pair[1]))
		}
	}
	return p
}

// scenarioB adds an open action that connects adjacent rooms at cost 3.
func scenarioB(t testing.TB) *Problem {
	t.Helper()
	d := roomsDomain(t, 2)
	require.NoError(t, d.AddPredicate("adjacent", 2))
	require.NoError(t, d.AddAction("open"))
	require.NoError(t, d.SetActionCost("open", 3))
	require.NoError(t, d.AddActionParam("open", "x"))
	require.NoError(t, d.AddActionParam("open", "y"))
	require.NoError(t, d.AddActionPrecond("open", "isIn", false, "x"))
	require.NoError(t, d.AddActionPrecond("open", "adjacent", false, "x", "y"))
	require.NoError(t, d.AddActionPrecond("open", "connected", true, "x", "y"))
	require.NoError(t, d.AddActionEffect("open", "connected", false, "x", "y"))
	require.NoError(t, d.AddActionEffect("open", "connected", false, "y", "x"))

	p := NewProblem("rooms-b", d)
	addObjects(t, p, rooms(4)...)
	require.NoError(t, p.GroundInit("isIn", "rm0"))
	for _, e := range [][2]string{{"rm0", "rm1"}, {"rm1", "rm3"}, {"rm3", "rm2"}} {
		require.NoError(t, p.GroundInit("connected", e[0], e[1]))
		require.NoError(t, p.GroundInit("connected", e[1], e[0]))
		require.NoError(t, p.GroundInit("adjacent", e[0], e[1]))
		require.NoError(t, p.GroundInit("adjacent", e[1], e[0]))
	}
	require.NoError(t, p.GroundInit("adjacent", "rm0", "rm2"))
	require.NoError(t, p.GroundInit("adjacent", "rm2", "rm0"))
	require.NoError(t, p.GroundGoal("isIn", "rm2"))
	return p
}

var gridHoles = []string{"A3", "B1", "B5", "C3", "D1", "D5", "E3"}

func gridCells() []string {
	var out []string
	for _, r := range "ABCDE" {
		for c := 1; c <= 5; c++ {
			out = append(out, fmt.Sprintf("%c%d", r, c))
		}
	}
	return out
}

// scenarioC is a 5x5 grid where moving onto a hole has no effect.
func scenarioC(t testing.TB) *Problem {
	t.Helper()
	d := NewDomain("grid")
	require.NoError(t, d.AddPredicate("in", 1))
	require.NoError(t, d.AddPredicate("adjacent", 2))
	require.NoError(t, d.AddPredicate("hole", 1))
	require.NoError(t, d.AddAction("move"))
	require.NoError(t, d.AddActionParam("move", "x"))
	require.NoError(t, d.AddActionParam("move", "y"))
	require.NoError(t, d.AddActionPrecond("move", "in", false, "x"))
	require.NoError(t, d.AddActionPrecond("move", "adjacent", false, "x", "y"))
	require.NoError(t, d.AddActionCondEffect("move",
		[]Literal{{Predicate: "hole", Negated: true, Params: []string{"y"}}},
		[]Literal{
			{Predicate: "in", Params: []string{"y"}},
			{Predicate: "in", Negated: true, Params: []string{"x"}},
		}))

	p := NewProblem("grid-c", d)
	addObjects(t, p, gridCells()...)
	for ri, r := range "ABCDE" {
		for c := 1; c <= 5; c++ {
			from := fmt.Sprintf("%c%d", r, c)
			if c < 5 {
				to := fmt.Sprintf("%c%d", r, c+1)
				require.NoError(t, p.GroundInit("adjacent", from, to))
				require.NoError(t, p.GroundInit("adjacent", to, from))
			}
			if ri < 4 {
				to := fmt.Sprintf("%c%d", "ABCDE"[ri+1], c)
				require.NoError(t, p.GroundInit("adjacent", from, to))
				require.NoError(t, p.GroundInit("adjacent", to, from))
			}
		}
	}
	for _, h := range gridHoles {
		require.NoError(t, p.GroundInit("hole", h))
	}
	require.NoError(t, p.GroundInit("in", "A1"))
	require.NoError(t, p.GroundGoal("in", "E5"))
	return p
}

func mustApply(t testing.TB, a *ActionSchema, st *State, args ...Symbol) *State {
	t.Helper()
	next, ok, err := a.Apply(st, args)
	require.NoError(t, err)
	require.True(t, ok, "%s%v not applicable", a.Name(), args)
	return next
}

func symbols(names ...string) []Symbol {
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = Symbol(n)
	}
	return out
}

// switchOff needs a fact deleted before the goal action fires: finish
// tests on(x) for absence, which the delete relaxation can never reach.
func switchOff(t testing.TB) *Problem {
	t.Helper()
	d := NewDomain("switch")
	require.NoError(t, d.AddPredicate("on", 1))
	require.NoError(t, d.AddPredicate("done", 1))
	require.NoError(t, d.AddAction("off"))
	require.NoError(t, d.AddActionParam("off", "x"))
	require.NoError(t, d.AddActionPrecond("off", "on", false, "x"))
	require.NoError(t, d.AddActionEffect("off", "on", true, "x"))
	require.NoError(t, d.AddAction("finish"))
	require.NoError(t, d.AddActionParam("finish", "x"))
	require.NoError(t, d.AddActionPrecond("finish", "on", true, "x"))
	require.NoError(t, d.AddActionEffect("finish", "done", false, "x"))

	p := NewProblem("switch-off", d)
	addObjects(t, p, "a")
	require.NoError(t, p.GroundInit("on", "a"))
	require.NoError(t, p.GroundGoal("done", "a"))
	return p
}
