package genetics

// Chromosome is the capability every genome encoding must satisfy. The
// core engine never inspects a chromosome's contents; it only calls
// these methods and the bound Operators functions. C is the concrete
// chromosome type (e.g. a fixed-length bitstring, a []float64, a
// []byte), parameterized so that Clone/FromBytes return the concrete
// type rather than an interface.
type Chromosome[C any] interface {
	// Clone returns a deep copy of the chromosome.
	Clone() C
	// ToBytes serializes the chromosome for persistence or for shipping
	// across a parallel evaluator's transport.
	ToBytes() ([]byte, error)
	// FromBytes deserializes a chromosome previously produced by
	// ToBytes.
	FromBytes([]byte) (C, error)
	// String renders the chromosome for diagnostics.
	String() string
}

// Operators is the function-pointer table every population carries. The
// engine invokes these to perform all domain-specific work; it is
// polymorphic over any Chromosome implementation.
type Operators[C Chromosome[C]] struct {
	// NewChromosome constructs one fresh, zero-value chromosome. There
	// is no paired destructor; Go's GC reclaims chromosome storage once
	// the owning Entity is unreachable.
	NewChromosome func(pop *Population[C]) C

	// Evaluate computes and stores the entity's fitness. Must be
	// deterministic given the entity's chromosomes, except for
	// intentionally stochastic objectives.
	Evaluate func(pop *Population[C], e *Entity[C]) (bool, error)

	// Seed initializes an entity's chromosomes to a starting state.
	Seed func(pop *Population[C], e *Entity[C]) (bool, error)

	// Adapt performs local search on e and returns a possibly-new
	// entity (the "adult"), which may be e itself.
	Adapt func(pop *Population[C], e *Entity[C]) (*Entity[C], error)

	// SelectOne is iterator-style asexual selection: it returns the
	// next selected mother (possibly nil, meaning "skip this draw") and
	// a done flag that tells the engine to stop selecting.
	SelectOne func(pop *Population[C]) (mother *Entity[C], done bool)

	// SelectTwo is iterator-style sexual selection, with the same
	// "nil means skip, done means stop" contract as SelectOne.
	SelectTwo func(pop *Population[C]) (mother, father *Entity[C], done bool)

	// ResetSelection, if set, is called by the engine at the start of
	// each selection phase (crossover, mutation) so that a stateful
	// SelectOne/SelectTwo closure can rewind its internal cursor.
	ResetSelection func()

	// Mutate writes a mutated copy of parent into child.
	Mutate func(pop *Population[C], parent, child *Entity[C])

	// Crossover writes recombined offspring into daughter and son.
	Crossover func(pop *Population[C], mother, father, daughter, son *Entity[C])

	// Replace implements the steady-state insertion policy for a newly
	// created child.
	Replace func(pop *Population[C], child *Entity[C])

	// DataDestructor releases one phenotype artifact when its last
	// reference is dropped.
	DataDestructor func(data any)

	// DataRefIncrementor returns a reference-incremented handle to a
	// phenotype artifact, used when cloning an entity.
	DataRefIncrementor func(data any) any

	// GenerationHook is called before each generation (or steady-state
	// iteration); returning false asks the engine to stop at the next
	// phase boundary.
	GenerationHook func(generation int, pop *Population[C]) bool

	// IterationHook is the analogous callback for non-evolutionary
	// iterative methods (simulated annealing, tabu search, ...) that
	// share the entity pool and ranking but are peer collaborators of
	// the core engine, not part of it.
	IterationHook func(iteration int, e *Entity[C]) bool
}

// Validate returns ErrMisconfigured (wrapped with which binding is
// missing) when required bindings for the generational/steady-state
// engines are absent. adaptRequired should be true whenever pop.Scheme
// is not DarwinScheme.
func (o *Operators[C]) Validate(adaptRequired bool) error {
	missing := func(name string, present bool) error {
		if !present {
			return errorsMissingBinding(name)
		}
		return nil
	}
	if err := missing("Evaluate", o.Evaluate != nil); err != nil {
		return err
	}
	if err := missing("SelectOne", o.SelectOne != nil); err != nil {
		return err
	}
	if err := missing("SelectTwo", o.SelectTwo != nil); err != nil {
		return err
	}
	if err := missing("Mutate", o.Mutate != nil); err != nil {
		return err
	}
	if err := missing("Crossover", o.Crossover != nil); err != nil {
		return err
	}
	if adaptRequired {
		if err := missing("Adapt", o.Adapt != nil); err != nil {
			return err
		}
	}
	return nil
}
