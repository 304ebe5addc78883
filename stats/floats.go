// Package stats provides descriptive statistics over a population's
// fitness values, backed by gonum's stat and floats packages.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Floats is a slice of fitness (or other) values with descriptive
// statistics attached.
type Floats []float64

// Min returns the smallest value in the slice.
func (x Floats) Min() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Max returns the greatest value in the slice.
func (x Floats) Max() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Sum returns the total of the values in the slice.
func (x Floats) Sum() float64 {
	return floats.Sum(x)
}

// Mean returns the average of the values in the slice.
func (x Floats) Mean() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// MeanVariance returns the sample mean and unbiased variance.
func (x Floats) MeanVariance() (mean, variance float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.MeanVariance(x, nil)
}

// Variance returns the variance of the values in the slice.
func (x Floats) Variance() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Variance(x, nil)
}

// StdDev returns the standard deviation of the values in the slice.
func (x Floats) StdDev() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// Median returns the middle value in the slice (50% quantile).
func (x Floats) Median() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := append(Floats(nil), x...)
	sortFloats(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// Skewness returns the sample skewness of the values in the slice.
func (x Floats) Skewness() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Skew(x, nil)
}

// ExKurtosis returns the excess kurtosis of the values in the slice.
func (x Floats) ExKurtosis() float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.ExKurtosis(x, nil)
}

func sortFloats(x Floats) {
	sort.Float64s(x)
}
