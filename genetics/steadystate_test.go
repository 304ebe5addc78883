package genetics

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steadyStateTestPopulation(t *testing.T) *Population[*stubChromosome] {
	t.Helper()
	ops := &Operators[*stubChromosome]{
		NewChromosome: func(pop *Population[*stubChromosome]) *stubChromosome {
			return &stubChromosome{value: pop.Rand.Intn(10)}
		},
		Evaluate: stubEvaluate,
		Seed: func(pop *Population[*stubChromosome], e *Entity[*stubChromosome]) (bool, error) {
			return true, nil
		},
		SelectOne: func(pop *Population[*stubChromosome]) (*Entity[*stubChromosome], bool) {
			return pop.EntityAt(0), false
		},
		SelectTwo: func(pop *Population[*stubChromosome]) (*Entity[*stubChromosome], *Entity[*stubChromosome], bool) {
			return pop.EntityAt(0), pop.EntityAt(1), false
		},
		Mutate: func(pop *Population[*stubChromosome], parent, child *Entity[*stubChromosome]) {
			child.Genotype = []*stubChromosome{{value: parent.Genotype[0].value + 1}}
		},
		Crossover: func(pop *Population[*stubChromosome], mother, father, daughter, son *Entity[*stubChromosome]) {
			daughter.Genotype = []*stubChromosome{{value: mother.Genotype[0].value}}
			son.Genotype = []*stubChromosome{{value: father.Genotype[0].value}}
		},
		Replace: func(pop *Population[*stubChromosome], child *Entity[*stubChromosome]) {
			pop.SortPopulation()
			_ = pop.Genocide(pop.StableSize)
		},
	}
	pop, err := NewPopulation[*stubChromosome](10, 30, 1, ops)
	require.NoError(t, err)
	pop.Rand = rand.New(rand.NewSource(3))
	pop.CrossoverRatio = 0.5
	pop.MutationRatio = 0.5
	return pop
}

func TestEvolveSteadyState_KeepsCensusAtStableSize(t *testing.T) {
	pop := steadyStateTestPopulation(t)
	require.NoError(t, pop.Seed(10))

	completed, err := EvolveSteadyState(context.Background(), pop, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, completed)
	assert.Equal(t, 10, pop.Size())
}

func TestEvolveSteadyState_RequiresReplaceBinding(t *testing.T) {
	pop := steadyStateTestPopulation(t)
	pop.Ops.Replace = nil
	require.NoError(t, pop.Seed(10))

	_, err := EvolveSteadyState(context.Background(), pop, 5)
	assert.Error(t, err)
}
