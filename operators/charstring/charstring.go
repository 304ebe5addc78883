// Package charstring is a built-in Chromosome implementation backed by
// a fixed-length printable-character array, suited to text-matching
// objectives.
package charstring

import (
	"fmt"

	"github.com/gaul-go/gaul/genetics"
)

// Charstring is a fixed-length sequence of bytes, one allele per
// character.
type Charstring struct {
	Alleles []byte
}

// New allocates a charstring of the given length, every allele zeroed.
func New(length int) *Charstring {
	return &Charstring{Alleles: make([]byte, length)}
}

func (c *Charstring) Clone() *Charstring {
	clone := &Charstring{Alleles: make([]byte, len(c.Alleles))}
	copy(clone.Alleles, c.Alleles)
	return clone
}

func (c *Charstring) ToBytes() ([]byte, error) {
	out := make([]byte, len(c.Alleles))
	copy(out, c.Alleles)
	return out, nil
}

func (c *Charstring) FromBytes(raw []byte) (*Charstring, error) {
	out := make([]byte, len(raw))
	copy(out, raw)
	return &Charstring{Alleles: out}, nil
}

func (c *Charstring) String() string {
	return string(c.Alleles)
}

var _ genetics.Chromosome[*Charstring] = (*Charstring)(nil)

// NewChromosome builds the genetics.Operators.NewChromosome binding for
// a fixed target length.
func NewChromosome(length int) func(pop *genetics.Population[*Charstring]) *Charstring {
	return func(pop *genetics.Population[*Charstring]) *Charstring {
		return New(length)
	}
}

// printableLow and printableHigh bound the allele alphabet to the
// printable ASCII range.
const (
	printableLow  = 32
	printableHigh = 126
)

func randomAllele(rng interface{ Intn(int) int }) byte {
	return byte(printableLow + rng.Intn(printableHigh-printableLow+1))
}

// SeedRandom fills every allele with a random printable character.
func SeedRandom(pop *genetics.Population[*Charstring], e *genetics.Entity[*Charstring]) (bool, error) {
	for _, chromo := range e.Genotype {
		for i := range chromo.Alleles {
			chromo.Alleles[i] = randomAllele(pop.Rand)
		}
	}
	return true, nil
}

// MutateSinglepoint increments or decrements one random allele by one,
// re-randomizing it when the step leaves the printable range.
func MutateSinglepoint(pop *genetics.Population[*Charstring], parent, child *genetics.Entity[*Charstring]) {
	child.Genotype = cloneGenotype(parent.Genotype)
	if len(child.Genotype) == 0 {
		return
	}
	c := pop.Rand.Intn(len(child.Genotype))
	chromo := child.Genotype[c]
	if len(chromo.Alleles) == 0 {
		return
	}
	i := pop.Rand.Intn(len(chromo.Alleles))
	delta := byte(1)
	if pop.Rand.Intn(2) == 0 {
		delta = 255
	}
	chromo.Alleles[i] += delta
	if chromo.Alleles[i] < printableLow || chromo.Alleles[i] > printableHigh {
		chromo.Alleles[i] = randomAllele(pop.Rand)
	}
}

// CrossoverSinglepoint performs one-point crossover per chromosome.
func CrossoverSinglepoint(pop *genetics.Population[*Charstring], mother, father, daughter, son *genetics.Entity[*Charstring]) {
	daughter.Genotype = make([]*Charstring, len(mother.Genotype))
	son.Genotype = make([]*Charstring, len(mother.Genotype))

	for c := range mother.Genotype {
		m, f := mother.Genotype[c], father.Genotype[c]
		length := len(m.Alleles)
		d, s := New(length), New(length)
		point := pop.Rand.Intn(length + 1)
		copy(d.Alleles[:point], m.Alleles[:point])
		copy(d.Alleles[point:], f.Alleles[point:])
		copy(s.Alleles[:point], f.Alleles[:point])
		copy(s.Alleles[point:], m.Alleles[point:])
		daughter.Genotype[c] = d
		son.Genotype[c] = s
	}
}

func cloneGenotype(genotype []*Charstring) []*Charstring {
	out := make([]*Charstring, len(genotype))
	for i, c := range genotype {
		out[i] = c.Clone()
	}
	return out
}

// TargetMatchEvaluate builds an Evaluate binding scoring an entity by
// how closely chromosome 0 matches target: one point for an exact
// character match, plus a smoothed component inversely proportional to
// the character distance.
func TargetMatchEvaluate(target string) func(pop *genetics.Population[*Charstring], e *genetics.Entity[*Charstring]) (bool, error) {
	targetBytes := []byte(target)
	return func(pop *genetics.Population[*Charstring], e *genetics.Entity[*Charstring]) (bool, error) {
		if len(e.Genotype) == 0 {
			return false, fmt.Errorf("charstring: entity has no chromosomes")
		}
		alleles := e.Genotype[0].Alleles
		score := 0.0
		for k := 0; k < len(targetBytes) && k < len(alleles); k++ {
			if alleles[k] == targetBytes[k] {
				score += 1.0
			}
			diff := int(alleles[k]) - int(targetBytes[k])
			if diff < 0 {
				diff = -diff
			}
			score += (127.0 - float64(diff)) / 50.0
		}
		e.Fitness = score
		return true, nil
	}
}

// HillClimbAdapt makes a single hill-climbing step on one randomly
// selected allele of chromosome 0: it tries +1 and returns that clone if
// it scores higher than the child; only otherwise does it try -1, and if
// neither beats the child it falls back to the unmodified child.
func HillClimbAdapt(evaluate func(pop *genetics.Population[*Charstring], e *genetics.Entity[*Charstring]) (bool, error)) func(pop *genetics.Population[*Charstring], child *genetics.Entity[*Charstring]) (*genetics.Entity[*Charstring], error) {
	return func(pop *genetics.Population[*Charstring], child *genetics.Entity[*Charstring]) (*genetics.Entity[*Charstring], error) {
		adult, err := pop.CloneEntity(child)
		if err != nil {
			return nil, err
		}
		if len(adult.Genotype) == 0 {
			return child, nil
		}
		allele := pop.Rand.Intn(len(adult.Genotype[0].Alleles))

		adult.Genotype[0].Alleles[allele]++
		if _, err := evaluate(pop, adult); err != nil {
			return nil, err
		}
		if adult.Fitness > child.Fitness {
			return adult, nil
		}

		adult.Genotype[0].Alleles[allele] -= 2
		if _, err := evaluate(pop, adult); err != nil {
			return nil, err
		}
		if adult.Fitness > child.Fitness {
			return adult, nil
		}

		if err := pop.Dereference(adult); err != nil {
			return nil, err
		}
		return child, nil
	}
}
