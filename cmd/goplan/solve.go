package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/goplan/internal/parallel"
	"github.com/gitrdm/goplan/internal/pddl"
	"github.com/gitrdm/goplan/internal/telemetry"
	"github.com/gitrdm/goplan/pkg/planner"
)

var (
	heuristicName string
	power         int
	nodeLimit     int
	timeout       time.Duration
	jobs          int
	trace         bool
	metricsOut    string
)

// solveCmd solves one or more problems of a domain
var solveCmd = &cobra.Command{
	Use:   "solve DOMAIN PROBLEM [PROBLEM...]",
	Short: "Find optimal plans for PDDL problems",
	Long: `Parses DOMAIN once per problem and solves every PROBLEM independently.
Problems are solved concurrently on --jobs workers; each search is
sequential.

Examples:
  goplan solve domain.pddl problem.pddl
  goplan solve --heuristic critical-path --power 2 domain.pddl p1.pddl p2.pddl`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVar(&heuristicName, "heuristic", "", "zero, delete-relaxation or critical-path (default from config)")
	f.IntVar(&power, "power", 0, "Subset size m for critical-path")
	f.IntVar(&nodeLimit, "node-limit", 0, "Maximum expansions per search (0: unlimited)")
	f.DurationVar(&timeout, "timeout", 0, "Time limit per search (0: none)")
	f.IntVarP(&jobs, "jobs", "j", 0, "Problems solved concurrently")
	f.BoolVar(&trace, "trace", false, "Log every expansion at debug level")
	f.StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this file")
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("heuristic") {
		cfg.Search.Heuristic = heuristicName
	}
	if f.Changed("power") {
		cfg.Search.Power = power
	}
	if f.Changed("node-limit") {
		cfg.Search.NodeLimit = nodeLimit
	}
	if f.Changed("timeout") {
		cfg.Search.Timeout = timeout.String()
	}
	if f.Changed("jobs") {
		cfg.Batch.Jobs = jobs
	}
	if f.Changed("trace") {
		cfg.Search.Trace = trace
	}
	if f.Changed("metrics-out") {
		cfg.Metrics.OutputPath = metricsOut
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	h, err := cfg.Heuristic()
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	domainPath, problems := args[0], args[1:]
	batch := make([]parallel.Job[*planner.Plan], len(problems))
	for i, problemPath := range problems {
		id := uuid.NewString()
		jobLogger := logger.With(zap.String("job", id), zap.String("problem", problemPath))
		batch[i] = parallel.Job[*planner.Plan]{
			ID: id,
			Run: func(ctx context.Context) (*planner.Plan, error) {
				p, err := pddl.LoadFiles(domainPath, problemPath)
				if err != nil {
					return nil, err
				}
				opts := append(cfg.SolveOptions(), planner.WithLogger(jobLogger))
				return planner.AStar(ctx, p, h, opts...)
			},
		}
	}

	pool := parallel.NewWorkerPool(cfg.Batch.Jobs, cfg.Batch.QueueSize, logger)
	defer pool.Shutdown()

	logger.Info("Solving",
		zap.String("domain", domainPath),
		zap.Int("problems", len(problems)),
		zap.String("heuristic", h.String()),
		zap.Int("workers", pool.Workers()))

	results, runErr := parallel.RunAll(ctx, pool, batch)

	recorder := telemetry.NewRecorder(cfg.Metrics.Namespace)
	out := cmd.OutOrStdout()
	failed := 0
	for i, res := range results {
		prefix := ""
		if len(problems) > 1 {
			prefix = problems[i] + ": "
		}
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%serror: %v\n", prefix, res.Err)
		} else {
			fmt.Fprintf(out, "%s%s\n", prefix, res.Value)
		}
		recorder.Observe(h, res.Value, res.Err)
		if res.Value != nil {
			logger.Info("Search finished",
				zap.String("job", res.ID),
				zap.String("problem", problems[i]),
				zap.String("outcome", telemetry.Outcome(res.Value, res.Err)),
				zap.Int("expanded", res.Value.Stats.NodesExpanded),
				zap.Duration("elapsed", res.Elapsed))
		}
	}

	if cfg.Metrics.OutputPath != "" {
		if err := recorder.WriteToTextfile(cfg.Metrics.OutputPath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(problems))
	}
	return nil
}
