// Package realvalue is a built-in Chromosome implementation backed by a
// fixed-length []float64, suited to parameter-fitting objectives.
package realvalue

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gaul-go/gaul/gaulmath"
	"github.com/gaul-go/gaul/genetics"
)

// RealValue is a fixed-length vector of real-valued alleles.
type RealValue struct {
	Alleles []float64
}

// New allocates a zeroed real-value chromosome of the given length.
func New(length int) *RealValue {
	return &RealValue{Alleles: make([]float64, length)}
}

func (r *RealValue) Clone() *RealValue {
	clone := &RealValue{Alleles: make([]float64, len(r.Alleles))}
	copy(clone.Alleles, r.Alleles)
	return clone
}

func (r *RealValue) ToBytes() ([]byte, error) {
	out := make([]byte, 8*len(r.Alleles))
	for i, v := range r.Alleles {
		binary.BigEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out, nil
}

func (r *RealValue) FromBytes(raw []byte) (*RealValue, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("realvalue: truncated encoding")
	}
	n := len(raw) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(raw[i*8:]))
	}
	return &RealValue{Alleles: out}, nil
}

func (r *RealValue) String() string {
	return fmt.Sprint(r.Alleles)
}

var _ genetics.Chromosome[*RealValue] = (*RealValue)(nil)

// NewChromosome builds the genetics.Operators.NewChromosome binding for
// a fixed allele count.
func NewChromosome(length int) func(pop *genetics.Population[*RealValue]) *RealValue {
	return func(pop *genetics.Population[*RealValue]) *RealValue {
		return New(length)
	}
}

// SeedUniform fills every allele uniformly within [0, scale).
func SeedUniform(scale float64) func(pop *genetics.Population[*RealValue], e *genetics.Entity[*RealValue]) (bool, error) {
	return func(pop *genetics.Population[*RealValue], e *genetics.Entity[*RealValue]) (bool, error) {
		for _, chromo := range e.Genotype {
			for i := range chromo.Alleles {
				chromo.Alleles[i] = pop.Rand.Float64() * scale
			}
		}
		return true, nil
	}
}

// MutateSinglepointDrift perturbs one random allele of one random
// chromosome by a small signed random delta.
func MutateSinglepointDrift(step float64) func(pop *genetics.Population[*RealValue], parent, child *genetics.Entity[*RealValue]) {
	return func(pop *genetics.Population[*RealValue], parent, child *genetics.Entity[*RealValue]) {
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
		delta := float64(gaulmath.RandSign(pop.Rand)) * pop.Rand.Float64() * step
		chromo.Alleles[i] += delta
	}
}

// CrossoverDoublepoints performs two-point crossover independently on
// each chromosome pair.
func CrossoverDoublepoints(pop *genetics.Population[*RealValue], mother, father, daughter, son *genetics.Entity[*RealValue]) {
	daughter.Genotype = make([]*RealValue, len(mother.Genotype))
	son.Genotype = make([]*RealValue, len(mother.Genotype))

	for c := range mother.Genotype {
		m, f := mother.Genotype[c], father.Genotype[c]
		length := len(m.Alleles)
		d, s := New(length), New(length)

		p1 := pop.Rand.Intn(length + 1)
		p2 := pop.Rand.Intn(length + 1)
		if p1 > p2 {
			p1, p2 = p2, p1
		}
		for i := 0; i < length; i++ {
			if i >= p1 && i < p2 {
				d.Alleles[i] = f.Alleles[i]
				s.Alleles[i] = m.Alleles[i]
			} else {
				d.Alleles[i] = m.Alleles[i]
				s.Alleles[i] = f.Alleles[i]
			}
		}
		daughter.Genotype[c] = d
		son.Genotype[c] = s
	}
}

func cloneGenotype(genotype []*RealValue) []*RealValue {
	out := make([]*RealValue, len(genotype))
	for i, c := range genotype {
		out[i] = c.Clone()
	}
	return out
}

// QuarticPolynomialEvaluate scores chromosome 0 (interpreted as
// [A, B, C, D]) against
// -(|targets[0]-A| + (targets[1]-B)^2 + |(targets[2]-C)^3| + (targets[3]-D)^4).
func QuarticPolynomialEvaluate(targets [4]float64) func(pop *genetics.Population[*RealValue], e *genetics.Entity[*RealValue]) (bool, error) {
	return func(pop *genetics.Population[*RealValue], e *genetics.Entity[*RealValue]) (bool, error) {
		if len(e.Genotype) == 0 || len(e.Genotype[0].Alleles) < 4 {
			return false, fmt.Errorf("realvalue: entity chromosome too short")
		}
		a := e.Genotype[0].Alleles
		score := math.Abs(targets[0]-a[0]) +
			math.Pow(targets[1]-a[1], 2) +
			math.Abs(math.Pow(targets[2]-a[2], 3)) +
			math.Pow(targets[3]-a[3], 4)
		e.Fitness = -score
		return true, nil
	}
}

// CurveFitEvaluate scores chromosome 0 (interpreted as [A, B, C, D])
// against the root-mean-square deviation of y = Ax*exp(Bx+C)+D across
// the given (x, y) training points.
func CurveFitEvaluate(x, y []float64) func(pop *genetics.Population[*RealValue], e *genetics.Entity[*RealValue]) (bool, error) {
	return func(pop *genetics.Population[*RealValue], e *genetics.Entity[*RealValue]) (bool, error) {
		if len(e.Genotype) == 0 || len(e.Genotype[0].Alleles) < 4 {
			return false, fmt.Errorf("realvalue: entity chromosome too short")
		}
		params := e.Genotype[0].Alleles
		sumSquares := 0.0
		for i := range x {
			predicted := x[i]*params[0]*math.Exp(x[i]*params[1]+params[2]) + params[3]
			diff := y[i] - predicted
			sumSquares += diff * diff
		}
		e.Fitness = -math.Sqrt(sumSquares / float64(len(x)))
		return true, nil
	}
}
