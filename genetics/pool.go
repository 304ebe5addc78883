package genetics

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// pool is a slab-like allocator of reusable entity slots within one
// population: fast allocate/release, stable identities, O(1) amortized
// allocation via a rolling scan hint.
type pool[C Chromosome[C]] struct {
	slots   []*Entity[C]
	maxSize int
	hint    int
}

func newPool[C Chromosome[C]](maxSize int) *pool[C] {
	return &pool[C]{slots: make([]*Entity[C], maxSize), maxSize: maxSize}
}

// getFreeEntity scans the slot array starting from the rolling hint,
// returning the first slot marked unused. It constructs the
// chromosomes via ops.NewChromosome, resets fitness to the sentinel, and
// clears the phenotype. It fails with gaul.ErrCapacityExceeded when
// every slot is in use.
func (p *pool[C]) getFreeEntity(pop *Population[C], ops *Operators[C], numChromosomes int) (*Entity[C], error) {
	for i := 0; i < p.maxSize; i++ {
		idx := (p.hint + i) % p.maxSize
		if p.slots[idx] == nil {
			e := &Entity[C]{id: idx, live: true, Fitness: gaul.MinFitness}
			if ops.NewChromosome != nil && numChromosomes > 0 {
				e.Genotype = make([]C, numChromosomes)
				for c := 0; c < numChromosomes; c++ {
					e.Genotype[c] = ops.NewChromosome(pop)
				}
			}
			p.slots[idx] = e
			p.hint = (idx + 1) % p.maxSize
			return e, nil
		}
	}
	gaul.ErrorLog(fmt.Sprintf("entity pool at capacity (%d)", p.maxSize))
	return nil, errors.Wrapf(gaul.ErrCapacityExceeded, "entity pool at capacity (%d)", p.maxSize)
}

// release marks e's slot unused, invoking the phenotype destructor on
// every node first. Releasing a slot that is not live is a programming
// error.
func (p *pool[C]) release(ops *Operators[C], e *Entity[C]) error {
	if e == nil {
		return errors.New("dereference: nil entity")
	}
	if e.id < 0 || e.id >= p.maxSize || p.slots[e.id] == nil || !p.slots[e.id].live {
		return errors.Errorf("dereference: slot %d is not live", e.id)
	}
	if ops.DataDestructor != nil {
		for _, ph := range e.Phenotype {
			ops.DataDestructor(ph)
		}
	}
	e.Phenotype = nil
	e.live = false
	p.slots[e.id] = nil
	return nil
}

// blank clears phenotype and resets fitness to the sentinel without
// releasing the slot or chromosome storage, for recycling scratch
// entities mid-generation.
func (p *pool[C]) blank(ops *Operators[C], e *Entity[C]) {
	if ops.DataDestructor != nil {
		for _, ph := range e.Phenotype {
			ops.DataDestructor(ph)
		}
	}
	e.Phenotype = nil
	e.Fitness = gaul.MinFitness
}

// at returns the entity live in slot id, or nil if the slot is free.
func (p *pool[C]) at(id int) *Entity[C] {
	if id < 0 || id >= len(p.slots) {
		return nil
	}
	return p.slots[id]
}
