package core

import (
	"context"
	"runtime"
	"sync"

	"github.com/toby1984/license-check/internal/types"
)

// checkJob pairs an artifact with its position in the input list so
// results can be reassembled in input order regardless of which worker
// finished first.
type checkJob struct {
	index    int
	artifact types.Artifact
}

type checkJobResult struct {
	index   int
	result  types.CheckResult
	failure error
}

// CheckFunc checks a single dependency. ctx is cancelled when another
// dependency already failed the run fatally.
type CheckFunc func(ctx context.Context, artifact types.Artifact) (types.CheckResult, error)

// ParallelExecutor runs per-dependency checks on a bounded worker pool.
// Each dependency's resolution is independent, so the only ordering
// requirement is that the final report is sorted afterwards.
type ParallelExecutor struct {
	maxWorkers int
}

// NewParallelExecutor creates an executor with the given worker bound.
// Zero or negative means one worker per CPU, capped at 8 to avoid
// hammering remote repositories.
func NewParallelExecutor(workers int) *ParallelExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 8 {
		workers = 8
	}
	return &ParallelExecutor{maxWorkers: workers}
}

// Execute checks every artifact and returns the results in input order.
// The first fatal failure cancels the remaining work and is returned;
// results produced before the cancellation are discarded by the caller.
func (p *ParallelExecutor) Execute(ctx context.Context, artifacts []types.Artifact, check CheckFunc) ([]types.CheckResult, error) {
	if len(artifacts) == 0 {
		return nil, nil
	}

	workerCount := p.maxWorkers
	if workerCount > len(artifacts) {
		workerCount = len(artifacts)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan checkJob, len(artifacts))
	results := make(chan checkJobResult, len(artifacts))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result, err := check(ctx, job.artifact)
				if err != nil {
					results <- checkJobResult{index: job.index, failure: err}
					cancel()
					continue
				}
				results <- checkJobResult{index: job.index, result: result}
			}
		}()
	}

	for i, artifact := range artifacts {
		jobs <- checkJob{index: i, artifact: artifact}
	}
	close(jobs)

	wg.Wait()
	close(results)

	ordered := make([]types.CheckResult, len(artifacts))
	seen := make([]bool, len(artifacts))
	var firstFailure error
	firstFailureIndex := len(artifacts)
	for r := range results {
		if r.failure != nil {
			if r.index < firstFailureIndex {
				firstFailure = r.failure
				firstFailureIndex = r.index
			}
			continue
		}
		ordered[r.index] = r.result
		seen[r.index] = true
	}
	if firstFailure != nil {
		return nil, firstFailure
	}
	for _, ok := range seen {
		// Unfilled slots occur only when a worker exited on cancellation.
		if !ok {
			return nil, ctx.Err()
		}
	}
	return ordered, nil
}
