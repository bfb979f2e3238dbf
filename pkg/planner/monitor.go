package planner

// monitor.go: statistics for best-first search

import (
	"fmt"
	"sync"
	"time"
)

// SearchStats holds statistics about one AStar run. Work done by nested
// heuristic searches is counted separately from the main search.
type SearchStats struct {
	NodesExpanded  int           // states popped and expanded
	NodesGenerated int           // successful action applications
	Duplicates     int           // successors already recorded at equal or lower cost
	Reopened       int           // recorded states improved to a strictly lower cost
	StaleSkipped   int           // frontier entries discarded as outdated
	PeakFrontier   int           // largest frontier size observed
	SearchTime     time.Duration // wall time of the search

	HeuristicEvals int // heuristic estimates computed (cache misses)
	HeuristicHits  int // estimates served from the per-search cache
	HeuristicNodes int // states expanded by nested heuristic searches
	DeadEnds       int // successors pruned as unable to reach the goal
}

// SearchMonitor accumulates SearchStats. It is safe to read from another
// goroutine while a search is recording into it.
type SearchMonitor struct {
	mu        sync.Mutex
	stats     SearchStats
	startTime time.Time
}

// NewSearchMonitor creates a monitor and starts its clock.
func NewSearchMonitor() *SearchMonitor {
	return &SearchMonitor{startTime: time.Now()}
}

// GetStats returns a copy of the current statistics.
func (m *SearchMonitor) GetStats() SearchStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	if s.SearchTime == 0 {
		s.SearchTime = time.Since(m.startTime)
	}
	return s
}

func (m *SearchMonitor) update(f func(*SearchStats)) {
	m.mu.Lock()
	f(&m.stats)
	m.mu.Unlock()
}

// RecordExpansion records popping a state for expansion.
func (m *SearchMonitor) RecordExpansion(frontier int) {
	m.update(func(s *SearchStats) {
		s.NodesExpanded++
		if frontier > s.PeakFrontier {
			s.PeakFrontier = frontier
		}
	})
}

// RecordGenerated records one successor.
func (m *SearchMonitor) RecordGenerated() {
	m.update(func(s *SearchStats) { s.NodesGenerated++ })
}

// RecordDuplicate records a successor that did not improve its record.
func (m *SearchMonitor) RecordDuplicate() {
	m.update(func(s *SearchStats) { s.Duplicates++ })
}

// RecordReopened records a recorded state reached more cheaply.
func (m *SearchMonitor) RecordReopened() {
	m.update(func(s *SearchStats) { s.Reopened++ })
}

// RecordStale records a discarded frontier entry.
func (m *SearchMonitor) RecordStale() {
	m.update(func(s *SearchStats) { s.StaleSkipped++ })
}

// RecordHeuristic records an estimate; nested is the work its searches did.
func (m *SearchMonitor) RecordHeuristic(cached bool, nested int) {
	m.update(func(s *SearchStats) {
		if cached {
			s.HeuristicHits++
			return
		}
		s.HeuristicEvals++
		s.HeuristicNodes += nested
	})
}

// RecordDeadEnd records a pruned successor.
func (m *SearchMonitor) RecordDeadEnd() {
	m.update(func(s *SearchStats) { s.DeadEnds++ })
}

// FinishSearch stops the clock.
func (m *SearchMonitor) FinishSearch() {
	m.update(func(s *SearchStats) { s.SearchTime = time.Since(m.startTime) })
}

// String returns a formatted summary.
func (s SearchStats) String() string {
	return fmt.Sprintf(
		"Search Statistics:\n"+
			"  Nodes: %d expanded, %d generated, %d duplicates, %d reopened, %d stale\n"+
			"  Frontier: peak %d\n"+
			"  Heuristic: %d evals, %d cache hits, %d nested nodes, %d dead ends\n"+
			"  Time: %v",
		s.NodesExpanded, s.NodesGenerated, s.Duplicates, s.Reopened, s.StaleSkipped,
		s.PeakFrontier,
		s.HeuristicEvals, s.HeuristicHits, s.HeuristicNodes, s.DeadEnds,
		s.SearchTime,
	)
}
