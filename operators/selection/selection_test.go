package selection

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaul-go/gaul/genetics"
	"github.com/gaul-go/gaul/operators/bitstring"
)

// pop.OrigSize()-driven strategies only make sense mid-generation,
// so each strategy is exercised by actually running one generation of
// the real engine rather than poking at population internals.
func runOneGeneration(t *testing.T, selectOne func(*genetics.Population[*bitstring.Bitstring]) (*genetics.Entity[*bitstring.Bitstring], bool),
	resetOne func(),
	selectTwo func(*genetics.Population[*bitstring.Bitstring]) (*genetics.Entity[*bitstring.Bitstring], *genetics.Entity[*bitstring.Bitstring], bool)) *genetics.Population[*bitstring.Bitstring] {
	t.Helper()

	ops := &genetics.Operators[*bitstring.Bitstring]{
		NewChromosome:  bitstring.NewChromosome(8),
		Evaluate:       bitstring.OnemaxEvaluate,
		Seed:           bitstring.SeedRandom,
		Mutate:         bitstring.MutateSinglepoint,
		Crossover:      bitstring.CrossoverDoublepoints,
		SelectOne:      selectOne,
		SelectTwo:      selectTwo,
		ResetSelection: resetOne,
	}

	pop, err := genetics.NewPopulation[*bitstring.Bitstring](10, 40, 1, ops)
	require.NoError(t, err)
	pop.Rand = rand.New(rand.NewSource(6))
	pop.CrossoverRatio = 0.5
	pop.MutationRatio = 0.5
	pop.Elitism = genetics.ElitismParentsSurvive
	require.NoError(t, pop.Seed(10))

	completed, err := genetics.Evolve(context.Background(), pop, 1)
	require.NoError(t, err)
	require.Equal(t, 1, completed)
	return pop
}

func TestBestOfTwoSelection_DrivesAFullGeneration(t *testing.T) {
	selectOne, resetOne := BestOfTwoOne[*bitstring.Bitstring]()
	selectTwo, _ := BestOfTwoTwo[*bitstring.Bitstring]()
	pop := runOneGeneration(t, selectOne, resetOne, selectTwo)
	assert.Equal(t, 10, pop.Size(), "survival pressure must bring the census back to stable size")
}

func TestRouletteSelection_DrivesAFullGeneration(t *testing.T) {
	selectOne, resetOne := RouletteOne[*bitstring.Bitstring]()
	selectTwo, _ := BestOfTwoTwo[*bitstring.Bitstring]()
	pop := runOneGeneration(t, selectOne, resetOne, selectTwo)
	assert.Equal(t, 10, pop.Size())
}

func TestSequentialSelection_DrivesAFullGeneration(t *testing.T) {
	selectTwo, _ := BestOfTwoTwo[*bitstring.Bitstring]()
	selectOne, resetOne := Sequential[*bitstring.Bitstring]()
	pop := runOneGeneration(t, selectOne, resetOne, selectTwo)
	assert.Equal(t, 10, pop.Size())
}
