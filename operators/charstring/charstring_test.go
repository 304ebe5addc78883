package charstring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaul-go/gaul/genetics"
)

func TestCharstring_ToBytesFromBytesRoundTrips(t *testing.T) {
	c := New(5)
	copy(c.Alleles, "hello")

	raw, err := c.ToBytes()
	require.NoError(t, err)

	var zero Charstring
	restored, err := zero.FromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", restored.String())
}

func TestTargetMatchEvaluate_ExactMatchScoresMaximally(t *testing.T) {
	target := "hello"
	evaluate := TargetMatchEvaluate(target)

	ops := &genetics.Operators[*Charstring]{NewChromosome: NewChromosome(len(target))}
	pop, err := genetics.NewPopulation[*Charstring](1, 2, 1, ops)
	require.NoError(t, err)

	exact, err := pop.GetFreeEntity()
	require.NoError(t, err)
	copy(exact.Genotype[0].Alleles, target)

	mismatched, err := pop.GetFreeEntity()
	require.NoError(t, err)
	copy(mismatched.Genotype[0].Alleles, "zzzzz")

	_, err = evaluate(pop, exact)
	require.NoError(t, err)
	_, err = evaluate(pop, mismatched)
	require.NoError(t, err)

	assert.Greater(t, exact.Fitness, mismatched.Fitness)
	assert.Equal(t, float64(len(target))*(1.0+127.0/50.0), exact.Fitness)
}

func TestHillClimbAdapt_NeverReturnsWorseThanChild(t *testing.T) {
	target := "hello"
	evaluate := TargetMatchEvaluate(target)
	adapt := HillClimbAdapt(evaluate)

	ops := &genetics.Operators[*Charstring]{NewChromosome: NewChromosome(len(target))}
	pop, err := genetics.NewPopulation[*Charstring](1, 4, 1, ops)
	require.NoError(t, err)
	pop.Rand = rand.New(rand.NewSource(2))

	child, err := pop.GetFreeEntity()
	require.NoError(t, err)
	copy(child.Genotype[0].Alleles, target)
	_, err = evaluate(pop, child)
	require.NoError(t, err)

	adult, err := adapt(pop, child)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, adult.Fitness, child.Fitness)
}
