// Package genetics implements GAUL's Evolution Engine and
// Population/Entity Lifecycle: the data model for populations of
// variable-genome entities, the operator-plugged generational and
// steady-state control loops, the scheme/elitism policies, the
// migration topology, and the per-generation ranked invariants.
package genetics

import (
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// Population is a group of entities plus operator bindings and
// evolutionary parameters. It holds two parallel views of its
// live entities: an id-indexed view (the pool's slots, stable slot
// identity) and a rank-indexed view (fitness-ordered); both views see
// the same entities.
type Population[C Chromosome[C]] struct {
	// StableSize is the target census after survival.
	StableSize int
	// MaxSize bounds the entity pool.
	MaxSize int
	// NumChromosomes is N, the number of chromosomes per genotype; L
	// (each chromosome's internal length) is opaque to the core and
	// owned by the Chromosome implementation.
	NumChromosomes int

	CrossoverRatio float64
	MutationRatio  float64
	MigrationRatio float64

	Scheme         Scheme
	Elitism        Elitism
	RescoreParents bool

	// UserData is free for the caller/operators; the engine never
	// inspects it.
	UserData any

	// AlgorithmParams is an opaque extension slot for peer collaborators
	// (simulated annealing, tabu search, simplex, deterministic
	// crowding, ...) that share the entity pool and ranking with the
	// core engine but are not part of it.
	AlgorithmParams any

	// Generation is the engine's generation counter.
	Generation int
	// IslandTag identifies this population's index within an
	// Archipelago, or -1 if it is not part of one.
	IslandTag int

	// Rand is the PRNG threaded through every stochastic decision the
	// engine makes (migration throws); the built-in seed, mutation,
	// crossover and selection operators draw from it as well.
	Rand *rand.Rand

	Ops *Operators[C]

	pool     *pool[C]
	rankView []*Entity[C]
	origSize int
}

// NewPopulation constructs an empty population with the given capacity,
// chromosome shape, and operator bindings.
func NewPopulation[C Chromosome[C]](stableSize, maxSize, numChromosomes int, ops *Operators[C]) (*Population[C], error) {
	if stableSize <= 0 || maxSize < stableSize {
		return nil, errors.Wrapf(gaul.ErrMisconfigured, "invalid population sizes: stable=%d max=%d", stableSize, maxSize)
	}
	return &Population[C]{
		StableSize:     stableSize,
		MaxSize:        maxSize,
		NumChromosomes: numChromosomes,
		Scheme:         DarwinScheme,
		Ops:            ops,
		IslandTag:      -1,
		Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		pool:           newPool[C](maxSize),
		rankView:       make([]*Entity[C], 0, maxSize),
	}, nil
}

// Size returns the current census n.
func (p *Population[C]) Size() int { return len(p.rankView) }

// OrigSize returns the size latched at the start of the current
// generation.
func (p *Population[C]) OrigSize() int { return p.origSize }

// EntityAt returns the entity at the given rank (0 is the fittest), or
// nil if rank is out of range.
func (p *Population[C]) EntityAt(rank int) *Entity[C] {
	if rank < 0 || rank >= len(p.rankView) {
		return nil
	}
	return p.rankView[rank]
}

// EntityByID returns the live entity occupying the given stable slot id,
// or nil if that slot is free.
func (p *Population[C]) EntityByID(id int) *Entity[C] {
	return p.pool.at(id)
}

// RankView returns the current fitness-ordered view. Callers must treat
// it as read-only; it may be stale between phase boundaries.
func (p *Population[C]) RankView() []*Entity[C] {
	return p.rankView
}

// GetFreeEntity allocates a new live entity: the pool finds a free slot,
// constructs its chromosomes, and the entity joins the rank-view at the
// current tail position. Fails with gaul.ErrCapacityExceeded when the
// pool is at MaxSize.
func (p *Population[C]) GetFreeEntity() (*Entity[C], error) {
	e, err := p.pool.getFreeEntity(p, p.Ops, p.NumChromosomes)
	if err != nil {
		return nil, err
	}
	e.rank = len(p.rankView)
	p.rankView = append(p.rankView, e)
	return e, nil
}

// Dereference destroys e: its phenotype is released via the operator
// contract's destructor, its chromosome storage is released, its slot
// returns to the free pool, and the rank-view is compacted (entries
// after e's rank shift down by one).
func (p *Population[C]) Dereference(e *Entity[C]) error {
	if e == nil {
		return errors.New("dereference: nil entity")
	}
	return p.DereferenceByRank(e.rank)
}

// DereferenceByRank is the fast path used by survival pressure: it
// destroys the entity at the given rank and compacts the rank-view in
// place.
func (p *Population[C]) DereferenceByRank(rank int) error {
	if rank < 0 || rank >= len(p.rankView) {
		return errors.Errorf("dereference: rank %d out of range [0,%d)", rank, len(p.rankView))
	}
	e := p.rankView[rank]
	if err := p.pool.release(p.Ops, e); err != nil {
		return err
	}
	copy(p.rankView[rank:], p.rankView[rank+1:])
	p.rankView = p.rankView[:len(p.rankView)-1]
	for i := rank; i < len(p.rankView); i++ {
		p.rankView[i].rank = i
	}
	return nil
}

// Blank recycles e as a scratch entity mid-generation: its phenotype is
// cleared and its fitness reset to the sentinel, but its slot and
// chromosome storage are kept.
func (p *Population[C]) Blank(e *Entity[C]) {
	p.pool.blank(p.Ops, e)
}

// Seed populates the population with n freshly-seeded entities, via
// GetFreeEntity followed by Ops.Seed for each.
func (p *Population[C]) Seed(n int) error {
	for i := 0; i < n; i++ {
		e, err := p.GetFreeEntity()
		if err != nil {
			return err
		}
		if p.Ops.Seed == nil {
			continue
		}
		ok, err := p.Ops.Seed(p, e)
		if err != nil {
			return errors.Wrap(err, "seed callback failed")
		}
		if !ok {
			return errors.New("seed callback reported failure")
		}
	}
	return nil
}

// CloneEntity allocates a new entity in p and deep-copies src's
// chromosomes and (reference-incremented) phenotype into it, preserving
// src's fitness. src may belong to a different population (used by
// Archipelago migration).
func (p *Population[C]) CloneEntity(src *Entity[C]) (*Entity[C], error) {
	dst, err := p.GetFreeEntity()
	if err != nil {
		return nil, err
	}
	src.cloneInto(dst, p.Ops.DataRefIncrementor)
	return dst, nil
}

// Clone builds a new population with the same sizes, shape, parameters,
// and operator bindings, containing a clone of every live entity. The
// clone shares p's Ops table and Rand; callers wanting an independent
// stochastic stream should replace the clone's Rand afterwards.
func (p *Population[C]) Clone() (*Population[C], error) {
	clone, err := NewPopulation[C](p.StableSize, p.MaxSize, p.NumChromosomes, p.Ops)
	if err != nil {
		return nil, err
	}
	clone.CrossoverRatio = p.CrossoverRatio
	clone.MutationRatio = p.MutationRatio
	clone.MigrationRatio = p.MigrationRatio
	clone.Scheme = p.Scheme
	clone.Elitism = p.Elitism
	clone.RescoreParents = p.RescoreParents
	clone.UserData = p.UserData
	clone.AlgorithmParams = p.AlgorithmParams
	clone.Generation = p.Generation
	clone.Rand = p.Rand
	for _, e := range p.rankView {
		if _, err := clone.CloneEntity(e); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// Genocide dereferences entities from the bottom of the rank-view until
// the census is at most targetSize, the survival-pressure primitive the
// generational engine applies after each generation's sort.
func (p *Population[C]) Genocide(targetSize int) error {
	if targetSize < 0 {
		targetSize = 0
	}
	for p.Size() > targetSize {
		if err := p.DereferenceByRank(p.Size() - 1); err != nil {
			return err
		}
	}
	return nil
}

// Extinct dereferences every live entity and frees the population's
// slab, implementing the Registry's Extinguishable contract.
func (p *Population[C]) Extinct() error {
	for len(p.rankView) > 0 {
		if err := p.DereferenceByRank(len(p.rankView) - 1); err != nil {
			return err
		}
	}
	return nil
}

// byFitnessDescending sorts the rank-view so that for i<j, rank i's
// fitness is >= rank j's fitness. Ties are broken arbitrarily.
type byFitnessDescending[C Chromosome[C]] []*Entity[C]

func (s byFitnessDescending[C]) Len() int      { return len(s) }
func (s byFitnessDescending[C]) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byFitnessDescending[C]) Less(i, j int) bool {
	return s[i].Fitness > s[j].Fitness
}

func (p *Population[C]) resortRankView() {
	sort.Sort(byFitnessDescending[C](p.rankView))
	for i, e := range p.rankView {
		e.rank = i
	}
}
