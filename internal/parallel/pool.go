// Package parallel runs independent planning jobs on a bounded pool of
// goroutines. Each job owns its own problem and search; nothing is shared
// between jobs except the pool itself.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// WorkerPool manages a fixed set of goroutines fed from a bounded queue.
// A full queue blocks Submit, which is the pool's backpressure.
type WorkerPool struct {
	maxWorkers int
	taskChan   chan func()
	workerWg   sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	logger     *zap.Logger
}

// NewWorkerPool creates a pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores;
// a queueSize <= 0 defaults to twice the worker count.
func NewWorkerPool(maxWorkers, queueSize int, logger *zap.Logger) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = maxWorkers * 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskChan:   make(chan func(), queueSize),
		logger:     logger,
	}
	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	logger.Debug("worker pool started", zap.Int("workers", maxWorkers), zap.Int("queue", queueSize))
	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.maxWorkers }

// worker runs queued tasks until the queue is closed and drained.
func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		if task != nil {
			task()
		}
	}
}

// Submit queues a task. If the queue is full, this call blocks until a
// worker frees a slot or ctx is done.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolShutdown
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for every queued and running
// task to complete. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskChan)
	wp.mu.Unlock()

	wp.workerWg.Wait()
	wp.logger.Debug("worker pool stopped")
}

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")
