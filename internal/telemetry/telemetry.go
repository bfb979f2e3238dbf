// Package telemetry turns planner search statistics into Prometheus
// metrics.
//
// Thread Safety: a Recorder is safe for concurrent use; batch workers record
// into one shared Recorder.
package telemetry

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gitrdm/goplan/pkg/planner"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeFound   = "found"
	OutcomeNoPlan  = "no_plan"
	OutcomeLimit   = "limit"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// Recorder owns a registry and the planner metrics registered in it.
type Recorder struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	expanded       *prometheus.CounterVec
	generated      *prometheus.CounterVec
	heuristicEvals *prometheus.CounterVec
	heuristicNodes *prometheus.CounterVec
	deadEnds       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	planCost       *prometheus.HistogramVec
	peakFrontier   *prometheus.GaugeVec
}

// NewRecorder registers the planner metrics under namespace in a fresh
// registry.
func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	labels := []string{"heuristic"}
	return &Recorder{
		registry: reg,
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Searches run, by heuristic and outcome",
		}, []string{"heuristic", "outcome"}),
		expanded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "nodes_expanded_total",
			Help:      "States expanded by the main search",
		}, labels),
		generated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "nodes_generated_total",
			Help:      "Successor states generated",
		}, labels),
		heuristicEvals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heuristic",
			Name:      "evaluations_total",
			Help:      "Heuristic estimates computed (cache misses)",
		}, labels),
		heuristicNodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heuristic",
			Name:      "nodes_expanded_total",
			Help:      "States expanded by nested heuristic searches",
		}, labels),
		deadEnds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heuristic",
			Name:      "dead_ends_total",
			Help:      "States pruned because the goal is unreachable from them",
		}, labels),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Search wall time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, labels),
		planCost: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "cost",
			Help:      "Cost of plans found",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500},
		}, labels),
		peakFrontier: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "peak_frontier",
			Help:      "Largest frontier of the most recent search",
		}, labels),
	}
}

// Registry exposes the registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Outcome classifies the result of an AStar call.
func Outcome(plan *planner.Plan, err error) string {
	switch {
	case errors.Is(err, planner.ErrSearchLimitReached):
		return OutcomeLimit
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case err != nil:
		return OutcomeError
	case plan != nil && plan.Found:
		return OutcomeFound
	}
	return OutcomeNoPlan
}

// Observe records one AStar result. plan may be nil when err is a
// validation error.
func (r *Recorder) Observe(h planner.Heuristic, plan *planner.Plan, err error) {
	name := h.Kind.String()
	r.searches.WithLabelValues(name, Outcome(plan, err)).Inc()
	if plan == nil {
		return
	}
	s := plan.Stats
	r.expanded.WithLabelValues(name).Add(float64(s.NodesExpanded))
	r.generated.WithLabelValues(name).Add(float64(s.NodesGenerated))
	r.heuristicEvals.WithLabelValues(name).Add(float64(s.HeuristicEvals))
	r.heuristicNodes.WithLabelValues(name).Add(float64(s.HeuristicNodes))
	r.deadEnds.WithLabelValues(name).Add(float64(s.DeadEnds))
	r.duration.WithLabelValues(name).Observe(s.SearchTime.Seconds())
	r.peakFrontier.WithLabelValues(name).Set(float64(s.PeakFrontier))
	if plan.Found {
		r.planCost.WithLabelValues(name).Observe(float64(plan.Cost))
	}
}

// WriteToTextfile writes every metric in the Prometheus text format, for
// the node exporter textfile collector.
func (r *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
