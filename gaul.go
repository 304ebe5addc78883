// Package gaul provides population-based stochastic optimization: a user
// supplies an objective function over a fixed-shape genome and drives an
// evolutionary search toward fitter solutions using the genetics subpackage.
package gaul

import (
	"math"

	"github.com/pkg/errors"
)

// MinFitness is the sentinel fitness value denoting "not yet evaluated".
// Every comparison treats a higher fitness as better, so the sentinel is
// the most negative representable float.
const MinFitness = -math.MaxFloat64

// Sentinel errors surfaced by the engines and supporting packages. Call
// sites wrap these with github.com/pkg/errors to add context before
// returning them to the caller.
var (
	// ErrMisconfigured is returned when a required operator binding is
	// missing, a population is empty where evolution requires it to be
	// non-empty, or a ratio used by a built-in operator falls outside
	// [0, 1].
	ErrMisconfigured = errors.New("gaul: misconfigured population or operators")

	// ErrCapacityExceeded is returned when an entity pool is asked to
	// allocate a new slot while already at its configured maximum size.
	ErrCapacityExceeded = errors.New("gaul: entity pool at capacity")
)
