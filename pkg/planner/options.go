package planner

import (
	"time"

	"go.uber.org/zap"
)

// SolveOption configures AStar. Use helpers like WithNodeLimit,
// WithTimeLimit, WithLogger and WithTrace.
type SolveOption func(*solveConfig)

type solveConfig struct {
	nodeLimit int
	timeLimit time.Duration
	logger    *zap.Logger
	trace     bool
	monitor   *SearchMonitor
}

func newSolveConfig(opts []SolveOption) *solveConfig {
	cfg := &solveConfig{logger: zap.NewNop()}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithNodeLimit stops the search with ErrSearchLimitReached once n states
// have been expanded. Values <= 0 mean no limit.
func WithNodeLimit(n int) SolveOption {
	return func(c *solveConfig) { c.nodeLimit = n }
}

// WithTimeLimit sets a hard time limit. When reached, AStar returns
// context.DeadlineExceeded.
func WithTimeLimit(d time.Duration) SolveOption {
	return func(c *solveConfig) { c.timeLimit = d }
}

// WithLogger sets the logger used for search progress. The default
// discards everything.
func WithLogger(l *zap.Logger) SolveOption {
	return func(c *solveConfig) { c.logger = l }
}

// WithTrace logs every expansion and generated successor at debug level.
func WithTrace(on bool) SolveOption {
	return func(c *solveConfig) { c.trace = on }
}

// WithMonitor records statistics into m instead of a private monitor, so
// that a caller can observe a search while it runs.
func WithMonitor(m *SearchMonitor) SolveOption {
	return func(c *solveConfig) { c.monitor = m }
}
