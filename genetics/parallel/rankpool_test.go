package parallel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaul-go/gaul"
	"github.com/gaul-go/gaul/genetics"
	"github.com/gaul-go/gaul/operators/bitstring"
)

// setAllBits is a stand-in for a worker-side local search: it drives
// every allele to its optimum, so adapted genotypes are recognizable.
func setAllBits(genotype []*bitstring.Bitstring) ([]*bitstring.Bitstring, error) {
	for _, chromo := range genotype {
		for i := 0; i < chromo.Len; i++ {
			chromo.Set(i, true)
		}
	}
	return genotype, nil
}

func TestRankPool_EvaluatesEveryPendingEntity(t *testing.T) {
	pop, pending := newEvaluationPopulation(t, 9)
	rp := NewRankPool[*bitstring.Bitstring](4)
	defer rp.Close()

	require.NoError(t, rp.EvaluateAll(context.Background(), pop, pending))
	for _, e := range pending {
		assert.Equal(t, 4.0, e.Fitness)
	}
}

func TestRankPool_ClampsRankCountToPendingSize(t *testing.T) {
	pop, pending := newEvaluationPopulation(t, 2)
	rp := NewRankPool[*bitstring.Bitstring](16)
	defer rp.Close()

	require.NoError(t, rp.EvaluateAll(context.Background(), pop, pending))
	for _, e := range pending {
		assert.Equal(t, 4.0, e.Fitness)
	}
}

func TestRankPool_ColdEvaluationOperatesOnSerializedCopies(t *testing.T) {
	var mu sync.Mutex
	var seen []*genetics.Entity[*bitstring.Bitstring]
	ops := &genetics.Operators[*bitstring.Bitstring]{
		NewChromosome: bitstring.NewChromosome(8),
		Evaluate: func(pop *genetics.Population[*bitstring.Bitstring], e *genetics.Entity[*bitstring.Bitstring]) (bool, error) {
			mu.Lock()
			seen = append(seen, e)
			mu.Unlock()
			return bitstring.OnemaxEvaluate(pop, e)
		},
	}
	pop, err := genetics.NewPopulation[*bitstring.Bitstring](4, 4, 1, ops)
	require.NoError(t, err)

	pending := make([]*genetics.Entity[*bitstring.Bitstring], 0, 4)
	for i := 0; i < 4; i++ {
		e, err := pop.GetFreeEntity()
		require.NoError(t, err)
		for bit := 0; bit < 8; bit++ {
			e.Genotype[0].Set(bit, bit%2 == 0)
		}
		pending = append(pending, e)
	}

	rp := NewRankPool[*bitstring.Bitstring](2)
	defer rp.Close()
	require.NoError(t, rp.EvaluateAll(context.Background(), pop, pending))

	originals := map[*genetics.Entity[*bitstring.Bitstring]]bool{}
	for _, e := range pending {
		originals[e] = true
		assert.Equal(t, 4.0, e.Fitness, "fitness must land on the original entity")
	}
	require.Len(t, seen, 4)
	for _, e := range seen {
		assert.False(t, originals[e], "ranks must evaluate reconstructed copies, never shared entity memory")
	}
}

func TestRankPool_AdaptAllLamarckWritesAdaptedChromosomesBack(t *testing.T) {
	pop, pending := newEvaluationPopulation(t, 4)
	rp := NewRankPool[*bitstring.Bitstring](2)
	rp.Adapt = setAllBits
	defer rp.Close()

	handled, err := rp.AdaptAll(context.Background(), pop, pending, genetics.AdaptLamarck)
	require.NoError(t, err)
	assert.True(t, handled)
	for _, e := range pending {
		assert.Equal(t, 8.0, e.Fitness, "fitness must come from the adapted genotype")
		assert.Equal(t, 8, e.Genotype[0].CountSet(), "Lamarckian adoption keeps the adapted chromosomes")
	}
}

func TestRankPool_AdaptAllBaldwinKeepsOriginalChromosomes(t *testing.T) {
	pop, pending := newEvaluationPopulation(t, 4)
	rp := NewRankPool[*bitstring.Bitstring](2)
	rp.Adapt = setAllBits
	defer rp.Close()

	handled, err := rp.AdaptAll(context.Background(), pop, pending, genetics.AdaptBaldwin)
	require.NoError(t, err)
	assert.True(t, handled)
	for _, e := range pending {
		assert.Equal(t, 8.0, e.Fitness, "only the adapted fitness is kept")
		assert.Equal(t, 4, e.Genotype[0].CountSet(), "Baldwinian adoption leaves the chromosomes untouched")
	}
}

func TestRankPool_AdaptAllUnhandledWithoutAdaptFunc(t *testing.T) {
	pop, pending := newEvaluationPopulation(t, 2)
	rp := NewRankPool[*bitstring.Bitstring](2)
	defer rp.Close()

	handled, err := rp.AdaptAll(context.Background(), pop, pending, genetics.AdaptLamarck)
	require.NoError(t, err)
	assert.False(t, handled, "without a bound Adapt the driver must fall back to Ops.Adapt")
}

func TestEvolveParallel_LamarckChildrenThroughRankPool(t *testing.T) {
	ops := &genetics.Operators[*bitstring.Bitstring]{
		NewChromosome: bitstring.NewChromosome(8),
		Evaluate:      bitstring.OnemaxEvaluate,
		Seed:          bitstring.SeedRandom,
		Mutate:        bitstring.MutateSinglepoint,
		Crossover:     bitstring.CrossoverDoublepoints,
		// Driver-side fallback; the rank pool runs the real local search.
		Adapt: func(pop *genetics.Population[*bitstring.Bitstring], e *genetics.Entity[*bitstring.Bitstring]) (*genetics.Entity[*bitstring.Bitstring], error) {
			return e, nil
		},
	}
	selected := 0
	ops.SelectOne = func(pop *genetics.Population[*bitstring.Bitstring]) (*genetics.Entity[*bitstring.Bitstring], bool) {
		if selected >= pop.OrigSize() {
			return nil, true
		}
		e := pop.EntityAt(selected)
		selected++
		return e, false
	}
	ops.SelectTwo = func(pop *genetics.Population[*bitstring.Bitstring]) (*genetics.Entity[*bitstring.Bitstring], *genetics.Entity[*bitstring.Bitstring], bool) {
		return nil, nil, true
	}
	ops.ResetSelection = func() { selected = 0 }

	pop, err := genetics.NewPopulation[*bitstring.Bitstring](4, 20, 1, ops)
	require.NoError(t, err)
	pop.CrossoverRatio = 0
	pop.MutationRatio = 1
	pop.Scheme = genetics.Scheme{Child: genetics.AdaptLamarck}
	require.NoError(t, pop.Seed(4))

	rp := NewRankPool[*bitstring.Bitstring](2)
	rp.Adapt = setAllBits
	defer rp.Close()

	completed, err := genetics.EvolveParallel(context.Background(), pop, 1, rp)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 4, pop.Size())

	best := pop.EntityAt(0)
	assert.Equal(t, 8.0, best.Fitness)
	assert.Equal(t, 8, best.Genotype[0].CountSet(),
		"the worker's adapted chromosomes must survive into the child under Lamarckian adoption")
}

func TestRankPool_WorkerFailureResetsEveryPendingFitness(t *testing.T) {
	ops := &genetics.Operators[*bitstring.Bitstring]{
		NewChromosome: bitstring.NewChromosome(8),
		Evaluate: func(pop *genetics.Population[*bitstring.Bitstring], e *genetics.Entity[*bitstring.Bitstring]) (bool, error) {
			return false, errors.New("objective diverged")
		},
	}
	pop, err := genetics.NewPopulation[*bitstring.Bitstring](3, 3, 1, ops)
	require.NoError(t, err)

	pending := make([]*genetics.Entity[*bitstring.Bitstring], 0, 3)
	for i := 0; i < 3; i++ {
		e, err := pop.GetFreeEntity()
		require.NoError(t, err)
		pending = append(pending, e)
	}

	rp := NewRankPool[*bitstring.Bitstring](3)
	defer rp.Close()

	evalErr := rp.EvaluateAll(context.Background(), pop, pending)
	require.Error(t, evalErr)
	var workerErr *genetics.WorkerFailedError
	assert.ErrorAs(t, evalErr, &workerErr)
	for _, e := range pending {
		assert.Equal(t, gaul.MinFitness, e.Fitness)
	}
}
