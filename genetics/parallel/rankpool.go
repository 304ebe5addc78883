package parallel

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
	"github.com/gaul-go/gaul/genetics"
)

// RankPool models the MPI master-worker evaluator in-process: the
// driver is the master, each worker is a goroutine addressed by rank,
// and every job crosses the rank boundary as serialized chromosome
// frames. A rank reconstructs the genotype with FromBytes, performs a
// cold evaluation on the copy, and returns the scalar fitness; with a
// bound Adapt function it additionally runs local search on the copy
// and returns the adapted chromosome bytes. The master writes results
// back keyed by job index, preserving entity identity without ever
// sharing entity memory with the ranks. Swapping in a real MPI
// transport only requires replacing the two channels below.
type RankPool[C genetics.Chromosome[C]] struct {
	NumRanks int

	// Adapt, when non-nil, runs on the worker rank against the
	// reconstructed genotype before evaluation, and its result is
	// serialized back to the master. Leaving it nil makes AdaptAll
	// report itself unhandled, so the driver falls back to Ops.Adapt.
	Adapt func(genotype []C) ([]C, error)
}

// NewRankPool constructs a RankPool sized from GAUL_NUM_MPI_RANKS when
// numRanks <= 0.
func NewRankPool[C genetics.Chromosome[C]](numRanks int) *RankPool[C] {
	if numRanks <= 0 {
		numRanks = NumMPIRanksFromEnv()
	}
	return &RankPool[C]{NumRanks: numRanks}
}

type rankJob struct {
	idx    int
	frames [][]byte
}

type rankResult struct {
	idx     int
	fitness float64
	frames  [][]byte
	err     error
}

func (rp *RankPool[C]) EvaluateAll(ctx context.Context, pop *genetics.Population[C], pending []*genetics.Entity[C]) error {
	return rp.run(ctx, pop, pending, false, genetics.AdaptNone)
}

// AdaptAll distributes the adapt-and-evaluate step for one group of
// entities across the ranks. The master applies each returned result
// per policy: the fitness always, the adapted chromosomes only under
// Lamarckian adoption. Reports handled=false (and does nothing) when
// no Adapt function is bound.
func (rp *RankPool[C]) AdaptAll(ctx context.Context, pop *genetics.Population[C], pending []*genetics.Entity[C], policy genetics.AdaptPolicy) (bool, error) {
	if rp.Adapt == nil {
		return false, nil
	}
	return true, rp.run(ctx, pop, pending, true, policy)
}

func (rp *RankPool[C]) run(ctx context.Context, pop *genetics.Population[C], pending []*genetics.Entity[C], adapt bool, policy genetics.AdaptPolicy) error {
	if len(pending) == 0 {
		return nil
	}

	numRanks := rp.NumRanks
	if numRanks > len(pending) {
		numRanks = len(pending)
	}

	jobs := make(chan rankJob)
	results := make(chan rankResult, len(pending))
	var wg sync.WaitGroup
	for rank := 0; rank < numRanks; rank++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rp.rankLoop(ctx, pop, jobs, results, adapt)
		}()
	}

	var dispatchErr error
	for i, e := range pending {
		frames, err := encodeGenotype(e.Genotype)
		if err != nil {
			dispatchErr = &genetics.WorkerFailedError{Cause: err}
			break
		}
		select {
		case <-ctx.Done():
			dispatchErr = ctx.Err()
		case jobs <- rankJob{idx: i, frames: frames}:
		}
		if dispatchErr != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	firstErr := dispatchErr
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		e := pending[r.idx]
		e.Fitness = r.fitness
		if adapt && policy == genetics.AdaptLamarck && r.frames != nil {
			genotype, err := decodeGenotype[C](r.frames)
			if err != nil {
				if firstErr == nil {
					firstErr = &genetics.WorkerFailedError{Cause: err}
				}
				continue
			}
			e.Genotype = genotype
		}
	}
	if firstErr != nil {
		gaul.ErrorLog("rank pool evaluation aborted: " + firstErr.Error())
		for _, e := range pending {
			e.Fitness = gaul.MinFitness
		}
	}
	return firstErr
}

// rankLoop is one worker rank: it drains jobs, reconstructs each
// genotype from its serialized frames, optionally adapts the copy, cold
// evaluates it, and reports the result keyed by job index.
func (rp *RankPool[C]) rankLoop(ctx context.Context, pop *genetics.Population[C], jobs <-chan rankJob, results chan<- rankResult, adapt bool) {
	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- rankResult{idx: job.idx, err: ctx.Err()}
			continue
		default:
		}

		genotype, err := decodeGenotype[C](job.frames)
		if err != nil {
			results <- rankResult{idx: job.idx, err: &genetics.WorkerFailedError{Cause: err}}
			continue
		}
		if adapt {
			if genotype, err = rp.Adapt(genotype); err != nil {
				results <- rankResult{idx: job.idx, err: &genetics.WorkerFailedError{Cause: err}}
				continue
			}
		}

		scratch := &genetics.Entity[C]{Fitness: gaul.MinFitness, Genotype: genotype}
		ok, err := pop.Ops.Evaluate(pop, scratch)
		if err == nil && !ok {
			err = errors.New("evaluate callback reported failure")
		}
		if err != nil {
			results <- rankResult{idx: job.idx, err: &genetics.WorkerFailedError{Cause: err}}
			continue
		}

		res := rankResult{idx: job.idx, fitness: scratch.Fitness}
		if adapt {
			if res.frames, err = encodeGenotype(scratch.Genotype); err != nil {
				results <- rankResult{idx: job.idx, err: &genetics.WorkerFailedError{Cause: err}}
				continue
			}
		}
		results <- res
	}
}

func encodeGenotype[C genetics.Chromosome[C]](genotype []C) ([][]byte, error) {
	frames := make([][]byte, len(genotype))
	for i, c := range genotype {
		raw, err := c.ToBytes()
		if err != nil {
			return nil, err
		}
		frames[i] = raw
	}
	return frames, nil
}

func decodeGenotype[C genetics.Chromosome[C]](frames [][]byte) ([]C, error) {
	var zero C
	genotype := make([]C, len(frames))
	for i, raw := range frames {
		c, err := zero.FromBytes(raw)
		if err != nil {
			return nil, err
		}
		genotype[i] = c
	}
	return genotype, nil
}

func (rp *RankPool[C]) Close() error { return nil }
