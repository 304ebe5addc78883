package parallel

import (
	"context"
	"sync"

	"github.com/gaul-go/gaul"
	"github.com/gaul-go/gaul/genetics"
)

// ThreadPool fans a batch of pending evaluations out across goroutines,
// bounded by a semaphore channel so no more than NumWorkers entities are
// being evaluated at once. It shares the population's memory directly
// (no serialization), calling pop.Ops.Evaluate from each goroutine, so
// Evaluate implementations bound to a ThreadPool must be safe to call
// concurrently and must not mutate pop-level state such as pop.Rand
// without their own locking.
type ThreadPool[C genetics.Chromosome[C]] struct {
	NumWorkers int
}

// NewThreadPool constructs a ThreadPool sized from GAUL_NUM_THREADS when
// numWorkers <= 0.
func NewThreadPool[C genetics.Chromosome[C]](numWorkers int) *ThreadPool[C] {
	if numWorkers <= 0 {
		numWorkers = NumThreadsFromEnv()
	}
	return &ThreadPool[C]{NumWorkers: numWorkers}
}

func (tp *ThreadPool[C]) EvaluateAll(ctx context.Context, pop *genetics.Population[C], pending []*genetics.Entity[C]) error {
	if len(pending) == 0 {
		return nil
	}

	sem := make(chan struct{}, tp.NumWorkers)
	errChan := make(chan error, len(pending))
	var wg sync.WaitGroup

	cancelled := false
	for _, e := range pending {
		select {
		case <-ctx.Done():
			cancelled = true
		case sem <- struct{}{}:
		}
		if cancelled {
			break
		}

		wg.Add(1)
		go func(entity *genetics.Entity[C]) {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := pop.Ops.Evaluate(pop, entity); err != nil {
				errChan <- &genetics.WorkerFailedError{Cause: err}
				return
			}
			errChan <- nil
		}(e)
	}

	wg.Wait()
	close(errChan)

	var firstErr error
	for err := range errChan {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if cancelled && firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		gaul.ErrorLog("thread pool evaluation aborted: " + firstErr.Error())
		for _, e := range pending {
			e.Fitness = gaul.MinFitness
		}
	}
	return firstErr
}

func (tp *ThreadPool[C]) Close() error { return nil }
