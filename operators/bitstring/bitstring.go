// Package bitstring is a built-in Chromosome implementation backed by a
// fixed-length packed bit array.
package bitstring

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gaul-go/gaul/genetics"
)

// Bitstring is a fixed-length sequence of bits packed eight to a byte.
type Bitstring struct {
	Len  int
	Bits []byte
}

// New allocates a zeroed bitstring of the given bit length.
func New(length int) *Bitstring {
	return &Bitstring{Len: length, Bits: make([]byte, (length+7)/8)}
}

// Get returns the bit at index i.
func (b *Bitstring) Get(i int) bool {
	return b.Bits[i/8]&(1<<uint(i%8)) != 0
}

// Set assigns the bit at index i.
func (b *Bitstring) Set(i int, v bool) {
	mask := byte(1 << uint(i%8))
	if v {
		b.Bits[i/8] |= mask
	} else {
		b.Bits[i/8] &^= mask
	}
}

// Flip inverts the bit at index i.
func (b *Bitstring) Flip(i int) {
	b.Bits[i/8] ^= 1 << uint(i%8)
}

// CountSet returns the number of set bits.
func (b *Bitstring) CountSet() int {
	count := 0
	for i := 0; i < b.Len; i++ {
		if b.Get(i) {
			count++
		}
	}
	return count
}

func (b *Bitstring) Clone() *Bitstring {
	clone := &Bitstring{Len: b.Len, Bits: make([]byte, len(b.Bits))}
	copy(clone.Bits, b.Bits)
	return clone
}

// ToBytes serializes the bit length followed by the packed bit bytes.
func (b *Bitstring) ToBytes() ([]byte, error) {
	out := make([]byte, 4+len(b.Bits))
	binary.BigEndian.PutUint32(out[:4], uint32(b.Len))
	copy(out[4:], b.Bits)
	return out, nil
}

// FromBytes decodes a Bitstring previously produced by ToBytes. Safe to
// call on a nil receiver, since it reads only the argument.
func (b *Bitstring) FromBytes(raw []byte) (*Bitstring, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("bitstring: truncated encoding")
	}
	length := int(binary.BigEndian.Uint32(raw[:4]))
	bits := make([]byte, len(raw)-4)
	copy(bits, raw[4:])
	return &Bitstring{Len: length, Bits: bits}, nil
}

func (b *Bitstring) String() string {
	var sb strings.Builder
	for i := 0; i < b.Len; i++ {
		if b.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

var _ genetics.Chromosome[*Bitstring] = (*Bitstring)(nil)

// NewChromosome builds the genetics.Operators.NewChromosome binding for
// a fixed bit length.
func NewChromosome(length int) func(pop *genetics.Population[*Bitstring]) *Bitstring {
	return func(pop *genetics.Population[*Bitstring]) *Bitstring {
		return New(length)
	}
}

// SeedRandom randomizes every bit independently.
func SeedRandom(pop *genetics.Population[*Bitstring], e *genetics.Entity[*Bitstring]) (bool, error) {
	for _, chromo := range e.Genotype {
		for i := 0; i < chromo.Len; i++ {
			chromo.Set(i, pop.Rand.Intn(2) == 1)
		}
	}
	return true, nil
}

// MutateSinglepoint flips a single random bit in a random chromosome.
func MutateSinglepoint(pop *genetics.Population[*Bitstring], parent, child *genetics.Entity[*Bitstring]) {
	child.Genotype = cloneGenotype(parent.Genotype)
	if len(child.Genotype) == 0 {
		return
	}
	c := pop.Rand.Intn(len(child.Genotype))
	chromo := child.Genotype[c]
	if chromo.Len == 0 {
		return
	}
	chromo.Flip(pop.Rand.Intn(chromo.Len))
}

// CrossoverDoublepoints performs two-point crossover independently on
// each chromosome pair.
func CrossoverDoublepoints(pop *genetics.Population[*Bitstring], mother, father, daughter, son *genetics.Entity[*Bitstring]) {
	daughter.Genotype = make([]*Bitstring, len(mother.Genotype))
	son.Genotype = make([]*Bitstring, len(mother.Genotype))

	for c := range mother.Genotype {
		m, f := mother.Genotype[c], father.Genotype[c]
		length := m.Len
		d, s := New(length), New(length)

		p1 := pop.Rand.Intn(length + 1)
		p2 := pop.Rand.Intn(length + 1)
		if p1 > p2 {
			p1, p2 = p2, p1
		}

		for i := 0; i < length; i++ {
			inMiddle := i >= p1 && i < p2
			if inMiddle {
				d.Set(i, f.Get(i))
				s.Set(i, m.Get(i))
			} else {
				d.Set(i, m.Get(i))
				s.Set(i, f.Get(i))
			}
		}
		daughter.Genotype[c] = d
		son.Genotype[c] = s
	}
}

func cloneGenotype(genotype []*Bitstring) []*Bitstring {
	out := make([]*Bitstring, len(genotype))
	for i, c := range genotype {
		out[i] = c.Clone()
	}
	return out
}

// OnemaxEvaluate scores an entity by the number of set bits across all
// of its chromosomes.
func OnemaxEvaluate(pop *genetics.Population[*Bitstring], e *genetics.Entity[*Bitstring]) (bool, error) {
	score := 0.0
	for _, chromo := range e.Genotype {
		score += float64(chromo.CountSet())
	}
	e.Fitness = score
	return true, nil
}
