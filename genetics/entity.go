package genetics

import "github.com/gaul-go/gaul"

// Entity represents one candidate solution: a fitness score, a genotype
// (N chromosomes), and an optional phenotype (per-chromosome artifacts
// produced during evaluation, reference-counted via the operator
// contract's DataDestructor/DataRefIncrementor).
type Entity[C Chromosome[C]] struct {
	// id is the entity's stable slot identity within its population's
	// pool; it never changes across the entity's lifetime.
	id int
	// rank is the entity's current index in the population's rank-view,
	// kept in sync by Population so Dereference can locate and compact
	// in O(1) amortized without a linear scan.
	rank int
	// live is false for a free slot; get_free_entity flips it to true.
	live bool

	// Fitness is gaul.MinFitness until Evaluate (or Adapt, for
	// Baldwinian/Lamarckian groups) sets it.
	Fitness float64

	// Genotype holds the entity's N chromosomes.
	Genotype []C

	// Phenotype holds shared, reference-counted artifacts produced
	// during evaluation. Entries are opaque to the core engine.
	Phenotype []any

	// UserData is free for the operator bindings to use; the core
	// engine never reads or writes it.
	UserData any
}

// ID returns the entity's stable slot identity.
func (e *Entity[C]) ID() int { return e.id }

// Unevaluated reports whether the entity's fitness is still the
// sentinel and therefore needs (re-)evaluation before its ordering can
// be trusted.
func (e *Entity[C]) Unevaluated() bool { return e.Fitness == gaul.MinFitness }

// cloneInto deep-copies e's chromosomes and shallow-copies its phenotype
// (incrementing references via incrementor) into dst, and copies e's
// fitness. dst retains its own id/rank/live bookkeeping.
func (e *Entity[C]) cloneInto(dst *Entity[C], incrementor func(any) any) {
	dst.Genotype = make([]C, len(e.Genotype))
	for i, c := range e.Genotype {
		dst.Genotype[i] = c.Clone()
	}
	if len(e.Phenotype) > 0 {
		dst.Phenotype = make([]any, len(e.Phenotype))
		for i, ph := range e.Phenotype {
			if incrementor != nil {
				dst.Phenotype[i] = incrementor(ph)
			} else {
				dst.Phenotype[i] = ph
			}
		}
	}
	dst.Fitness = e.Fitness
	dst.UserData = e.UserData
}
