package genetics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaul-go/gaul"
)

func TestSchemeLegacy_ReproducesOriginalBitfieldValues(t *testing.T) {
	assert.Equal(t, 0, DarwinScheme.Legacy())
	assert.Equal(t, 1, Scheme{Parent: AdaptLamarck}.Legacy())
	assert.Equal(t, 2, Scheme{Child: AdaptLamarck}.Legacy())
	assert.Equal(t, 3, Scheme{Parent: AdaptLamarck, Child: AdaptLamarck}.Legacy())
	assert.Equal(t, 4, Scheme{Parent: AdaptBaldwin}.Legacy())
	assert.Equal(t, 8, Scheme{Child: AdaptBaldwin}.Legacy())
	assert.Equal(t, 12, Scheme{Parent: AdaptBaldwin, Child: AdaptBaldwin}.Legacy())
}

func TestParseScheme_AcceptsEveryNamedScheme(t *testing.T) {
	cases := map[string]Scheme{
		"darwin":           DarwinScheme,
		"lamarck-parents":  {Parent: AdaptLamarck},
		"lamarck-children": {Child: AdaptLamarck},
		"lamarck-all":      {Parent: AdaptLamarck, Child: AdaptLamarck},
		"baldwin-parents":  {Parent: AdaptBaldwin},
		"baldwin-children": {Child: AdaptBaldwin},
		"baldwin-all":      {Parent: AdaptBaldwin, Child: AdaptBaldwin},
	}
	for name, want := range cases {
		got, err := ParseScheme(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseScheme("lysenko")
	assert.ErrorIs(t, err, gaul.ErrMisconfigured)
}

func TestParseElitism_MapsNamesAndRescoreModifier(t *testing.T) {
	elitism, rescore, err := ParseElitism("parents-die")
	require.NoError(t, err)
	assert.Equal(t, ElitismParentsDie, elitism)
	assert.False(t, rescore)

	elitism, rescore, err = ParseElitism("rescore-parents")
	require.NoError(t, err)
	assert.Equal(t, ElitismParentsSurvive, elitism)
	assert.True(t, rescore)

	_, _, err = ParseElitism("nepotism")
	assert.ErrorIs(t, err, gaul.ErrMisconfigured)
}

func TestApplyOptions_CopiesRatiosAndResolvedPolicies(t *testing.T) {
	pop := newTestPopulation(t, 5, 10)
	opts := &gaul.Options{
		StableSize:     5,
		MaxSize:        10,
		CrossoverRatio: 0.8,
		MutationRatio:  0.05,
		Scheme:         "lamarck-children",
		Elitism:        "parents-die",
	}

	require.NoError(t, ApplyOptions(pop, opts))
	assert.Equal(t, 0.8, pop.CrossoverRatio)
	assert.Equal(t, Scheme{Child: AdaptLamarck}, pop.Scheme)
	assert.Equal(t, ElitismParentsDie, pop.Elitism)
	assert.False(t, pop.RescoreParents)
}

func TestApplyOptions_RejectsUnknownSchemeName(t *testing.T) {
	pop := newTestPopulation(t, 5, 10)
	opts := &gaul.Options{StableSize: 5, MaxSize: 10, Scheme: "alchemy"}

	err := ApplyOptions(pop, opts)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "alchemy"))
}
