package tester

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/AndreyAkinshin/convtest/internal/results"
)

// ParallelEnv overrides the worker count when Options.Workers is zero.
const ParallelEnv = "CONVTEST_PARALLEL"

const (
	// minParallelWorkers ensures at least one worker, even if runtime.NumCPU()
	// returns 0 in restricted environments.
	minParallelWorkers = 1

	// maxParallelWorkers caps CONVTEST_PARALLEL and execution.workers.
	maxParallelWorkers = 256
)

// runParallel executes units on a bounded worker pool. Each unit writes only
// its own slot of pairs, so the result order matches sequential execution.
// The first fatal error cancels the remaining units and is returned.
func (t *Tester) runParallel(ctx context.Context, log *slog.Logger, units []unit, pairs []results.PathPairResult) error {
	workers := t.workers(log)
	log.Debug("running in parallel", "workers", workers, "units", len(units))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	// Channel-as-semaphore: a worker holds a slot while its unit runs.
	sem := make(chan struct{}, workers)

	for i, u := range units {
		wg.Add(1)
		go func(i int, u unit) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			pair, err := t.runUnit(ctx, log, u)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}
			pairs[i] = pair
		}(i, u)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	// Cancellation of the caller's context may have stopped units before they started.
	return ctx.Err()
}

// workers returns the pool size: Options.Workers, then CONVTEST_PARALLEL, then NumCPU.
func (t *Tester) workers(log *slog.Logger) int {
	if n := t.opts.Workers; n > 0 {
		return min(n, maxParallelWorkers)
	}
	return getParallelWorkers(log)
}

// defaultWorkerCount returns the default number of parallel workers based on CPU count.
func defaultWorkerCount() int {
	return max(minParallelWorkers, runtime.NumCPU())
}

// getParallelWorkers reads CONVTEST_PARALLEL. Invalid values (non-numeric,
// <1, >256) log a warning and fall back to runtime.NumCPU().
func getParallelWorkers(log *slog.Logger) int {
	env := os.Getenv(ParallelEnv)
	if env == "" {
		return defaultWorkerCount()
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		log.Warn("invalid "+ParallelEnv+" value (not a number), using default", "value", env)
		return defaultWorkerCount()
	}

	if n < minParallelWorkers || n > maxParallelWorkers {
		log.Warn("invalid "+ParallelEnv+" value (out of range), using default",
			"value", n, "min", minParallelWorkers, "max", maxParallelWorkers)
		return defaultWorkerCount()
	}

	return n
}
