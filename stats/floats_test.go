package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloats_BasicStatistics(t *testing.T) {
	f := Floats{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, f.Min())
	assert.Equal(t, 5.0, f.Max())
	assert.Equal(t, 15.0, f.Sum())
	assert.Equal(t, 3.0, f.Mean())
	assert.Equal(t, 3.0, f.Median())
}

func TestFloats_MeanVarianceMatchesIndependentComputation(t *testing.T) {
	f := Floats{2, 4, 4, 4, 5, 5, 7, 9}

	mean, variance := f.MeanVariance()
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 4.571428571, variance, 1e-6)
	assert.InDelta(t, f.Variance(), variance, 1e-12)
	assert.InDelta(t, f.StdDev()*f.StdDev(), variance, 1e-9)
}

func TestFloats_MedianDoesNotMutateReceiver(t *testing.T) {
	f := Floats{5, 1, 3, 2, 4}
	_ = f.Median()
	assert.Equal(t, Floats{5, 1, 3, 2, 4}, f, "Median must operate on a copy")
}
