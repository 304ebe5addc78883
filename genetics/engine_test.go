package genetics

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaul-go/gaul"
)

// evolvableTestPopulation wires the full operator contract (select,
// mutate, crossover) needed to actually run Evolve/EvolveSteadyState,
// unlike newTestPopulation's no-op selectors.
func evolvableTestPopulation(t *testing.T, stableSize, maxSize int) *Population[*stubChromosome] {
	t.Helper()
	selectCount := 0
	ops := &Operators[*stubChromosome]{
		NewChromosome: func(pop *Population[*stubChromosome]) *stubChromosome {
			return &stubChromosome{value: pop.Rand.Intn(10)}
		},
		Evaluate: stubEvaluate,
		Seed: func(pop *Population[*stubChromosome], e *Entity[*stubChromosome]) (bool, error) {
			return true, nil
		},
		SelectOne: func(pop *Population[*stubChromosome]) (*Entity[*stubChromosome], bool) {
			if selectCount >= pop.OrigSize() {
				return nil, true
			}
			e := pop.EntityAt(selectCount)
			selectCount++
			return e, false
		},
		SelectTwo: func(pop *Population[*stubChromosome]) (*Entity[*stubChromosome], *Entity[*stubChromosome], bool) {
			if pop.OrigSize() < 2 {
				return nil, nil, true
			}
			return pop.EntityAt(0), pop.EntityAt(1), true
		},
		ResetSelection: func() { selectCount = 0 },
		Mutate: func(pop *Population[*stubChromosome], parent, child *Entity[*stubChromosome]) {
			child.Genotype = []*stubChromosome{{value: parent.Genotype[0].value + 1}}
		},
		Crossover: func(pop *Population[*stubChromosome], mother, father, daughter, son *Entity[*stubChromosome]) {
			daughter.Genotype = []*stubChromosome{{value: mother.Genotype[0].value}}
			son.Genotype = []*stubChromosome{{value: father.Genotype[0].value}}
		},
	}
	pop, err := NewPopulation[*stubChromosome](stableSize, maxSize, 1, ops)
	require.NoError(t, err)
	pop.Rand = rand.New(rand.NewSource(7))
	pop.CrossoverRatio = 0.5
	pop.MutationRatio = 0.5
	return pop
}

func TestEvolve_MaintainsStableSizeAndStopsAtMaxGenerations(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	require.NoError(t, pop.Seed(10))

	completed, err := Evolve(context.Background(), pop, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, completed)
	assert.Equal(t, 10, pop.Size())
}

func TestEvolve_GenerationHookCanStopEarly(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	require.NoError(t, pop.Seed(10))
	pop.Ops.GenerationHook = func(generation int, pop *Population[*stubChromosome]) bool {
		return generation < 2
	}

	completed, err := Evolve(context.Background(), pop, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)
}

func TestEvolve_ElitismParentsDie_RemovesOriginalParents(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	pop.Elitism = ElitismParentsDie
	require.NoError(t, pop.Seed(10))

	originalIDs := map[int]bool{}
	for _, e := range pop.RankView() {
		originalIDs[e.ID()] = true
	}

	_, err := Evolve(context.Background(), pop, 1)
	require.NoError(t, err)

	for _, e := range pop.RankView() {
		assert.False(t, originalIDs[e.ID()], "a parent slot survived ElitismParentsDie")
	}
}

func TestEvolve_ElitismOneParentSurvives_KeepsOnlyBest(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	pop.Elitism = ElitismOneParentSurvives
	require.NoError(t, pop.Seed(10))

	// Make one parent strictly dominant so neither the elitism pass nor
	// the genocide at the end of survival can be decided by a tie.
	pop.EntityAt(3).Genotype[0].value = 100
	require.NoError(t, pop.ScoreAndSort())
	bestID := pop.RankView()[0].ID()

	_, err := Evolve(context.Background(), pop, 1)
	require.NoError(t, err)

	survivingOriginal := 0
	for _, e := range pop.RankView() {
		if e.ID() == bestID {
			survivingOriginal++
		}
	}
	assert.Equal(t, 1, survivingOriginal)
}

// plusTenAdapt is a deterministic local-search stand-in: the adult is a
// clone of the entity with its allele bumped by ten, re-evaluated.
func plusTenAdapt(pop *Population[*stubChromosome], e *Entity[*stubChromosome]) (*Entity[*stubChromosome], error) {
	adult, err := pop.CloneEntity(e)
	if err != nil {
		return nil, err
	}
	adult.Genotype[0].value += 10
	if _, err := stubEvaluate(pop, adult); err != nil {
		return nil, err
	}
	return adult, nil
}

func TestApplyAdapt_LamarckKeepsAdaptedChromosomesAndFitness(t *testing.T) {
	pop := evolvableTestPopulation(t, 5, 10)
	pop.Ops.Adapt = plusTenAdapt
	require.NoError(t, pop.Seed(5))
	require.NoError(t, pop.ScoreAndSort())

	e := pop.EntityAt(0)
	origValue := e.Genotype[0].value
	sizeBefore := pop.Size()

	require.NoError(t, pop.applyAdapt(e, AdaptLamarck))

	assert.Equal(t, origValue+10, e.Genotype[0].value, "Lamarckian adoption keeps the adapted chromosomes")
	assert.Equal(t, float64(origValue+10), e.Fitness)
	assert.Equal(t, sizeBefore, pop.Size(), "the transient adult must be released")
}

func TestApplyAdapt_BaldwinKeepsOriginalChromosomes(t *testing.T) {
	pop := evolvableTestPopulation(t, 5, 10)
	pop.Ops.Adapt = plusTenAdapt
	require.NoError(t, pop.Seed(5))
	require.NoError(t, pop.ScoreAndSort())

	e := pop.EntityAt(0)
	origValue := e.Genotype[0].value
	sizeBefore := pop.Size()

	require.NoError(t, pop.applyAdapt(e, AdaptBaldwin))

	assert.Equal(t, origValue, e.Genotype[0].value, "Baldwinian adoption leaves the chromosomes untouched")
	assert.Equal(t, float64(origValue+10), e.Fitness, "only the adapted fitness is kept")
	assert.Equal(t, sizeBefore, pop.Size())
}

func TestEvolve_RescoreParentsReevaluatesBeforeSurvival(t *testing.T) {
	pop := evolvableTestPopulation(t, 5, 20)
	pop.RescoreParents = true
	evaluations := 0
	baseEvaluate := pop.Ops.Evaluate
	pop.Ops.Evaluate = func(p *Population[*stubChromosome], e *Entity[*stubChromosome]) (bool, error) {
		evaluations++
		return baseEvaluate(p, e)
	}
	require.NoError(t, pop.Seed(5))

	_, err := Evolve(context.Background(), pop, 1)
	require.NoError(t, err)

	// 5 initial scores + 5 children + 5 parent rescores during survival.
	assert.GreaterOrEqual(t, evaluations, 15)
}

func TestEvolve_AppliesOptionsFromContext(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	require.NoError(t, pop.Seed(10))

	opts := &gaul.Options{
		StableSize:     10,
		MaxSize:        30,
		CrossoverRatio: 0,
		MutationRatio:  0.5,
		Scheme:         "darwin",
		Elitism:        "parents-die",
	}
	ctx := gaul.NewContext(context.Background(), opts)

	completed, err := Evolve(ctx, pop, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Equal(t, ElitismParentsDie, pop.Elitism)
	assert.Equal(t, 0.0, pop.CrossoverRatio)
	assert.Equal(t, 0.5, pop.MutationRatio)
}

func TestEvolve_RejectsInvalidOptionsFromContext(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	require.NoError(t, pop.Seed(10))

	ctx := gaul.NewContext(context.Background(), &gaul.Options{StableSize: 10, MaxSize: 30, Scheme: "alchemy"})

	_, err := Evolve(ctx, pop, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, gaul.ErrMisconfigured)
}

func TestEvolve_ContextCancellationStopsEarly(t *testing.T) {
	pop := evolvableTestPopulation(t, 10, 30)
	require.NoError(t, pop.Seed(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	completed, err := Evolve(ctx, pop, 10)
	assert.Error(t, err)
	assert.Equal(t, 0, completed)
}
