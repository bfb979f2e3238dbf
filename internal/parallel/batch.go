package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of batch work.
type Job[T any] struct {
	ID  string
	Run func(ctx context.Context) (T, error)
}

// Result is the outcome of a Job. Index is the job's position in the
// submitted slice.
type Result[T any] struct {
	ID      string
	Index   int
	Value   T
	Err     error
	Elapsed time.Duration
}

// RunAll runs every job on the pool and returns the results in job order.
// A panicking job yields a Result with an error instead of crashing the
// batch. If ctx ends before every job is submitted, the unsubmitted jobs
// report the ctx error and RunAll returns it once submitted jobs finish.
func RunAll[T any](ctx context.Context, pool *WorkerPool, jobs []Job[T]) ([]Result[T], error) {
	results := make([]Result[T], len(jobs))
	var wg sync.WaitGroup

	var submitErr error
	for i, job := range jobs {
		results[i] = Result[T]{ID: job.ID, Index: i}
		if submitErr != nil {
			results[i].Err = submitErr
			continue
		}
		wg.Add(1)
		res := &results[i]
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			runJob(ctx, pool.logger, job, res)
		})
		if err != nil {
			wg.Done()
			submitErr = err
			res.Err = err
		}
	}
	wg.Wait()
	return results, submitErr
}

func runJob[T any](ctx context.Context, logger *zap.Logger, job Job[T], res *Result[T]) {
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("job %s panicked: %v", job.ID, r)
			logger.Error("job panicked", zap.String("job", job.ID), zap.Any("panic", r))
		}
	}()

	logger.Debug("job started", zap.String("job", job.ID))
	res.Value, res.Err = job.Run(ctx)
	logger.Debug("job finished",
		zap.String("job", job.ID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(res.Err))
}
