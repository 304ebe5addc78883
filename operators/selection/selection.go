// Package selection provides built-in SelectOne/SelectTwo bindings:
// two-entity tournaments, fitness-proportionate roulette, and an
// exhaustive sequential walk.
package selection

import (
	"github.com/gaul-go/gaul/gaulmath"
	"github.com/gaul-go/gaul/genetics"
)

// state carries a selection closure's rolling draw counter, rewound by
// ResetSelection at each phase boundary.
type state struct {
	count int
}

// BestOfTwoOne builds a SelectOne binding that draws two random
// entities from the parent generation and returns the fitter one,
// stopping once origSize*mutationRatio selections have been made.
func BestOfTwoOne[C genetics.Chromosome[C]]() (func(pop *genetics.Population[C]) (*genetics.Entity[C], bool), func()) {
	st := &state{}
	reset := func() { st.count = 0 }
	selectOne := func(pop *genetics.Population[C]) (*genetics.Entity[C], bool) {
		origSize := pop.OrigSize()
		if origSize < 1 {
			return nil, true
		}
		mother := pop.EntityAt(pop.Rand.Intn(origSize))
		challenger := pop.EntityAt(pop.Rand.Intn(origSize))
		if challenger.Fitness > mother.Fitness {
			mother = challenger
		}
		st.count++
		return mother, float64(st.count) > float64(origSize)*pop.MutationRatio
	}
	return selectOne, reset
}

// BestOfTwoTwo builds a SelectTwo binding: each of mother and father is
// the winner of an independent two-entity tournament, redrawn until
// they differ, stopping once origSize*crossoverRatio pairs have been
// produced.
func BestOfTwoTwo[C genetics.Chromosome[C]]() (func(pop *genetics.Population[C]) (*genetics.Entity[C], *genetics.Entity[C], bool), func()) {
	st := &state{}
	reset := func() { st.count = 0 }
	selectTwo := func(pop *genetics.Population[C]) (*genetics.Entity[C], *genetics.Entity[C], bool) {
		origSize := pop.OrigSize()
		if origSize < 2 {
			return nil, nil, true
		}
		mother := pop.EntityAt(pop.Rand.Intn(origSize))
		challenger := pop.EntityAt(pop.Rand.Intn(origSize))
		if challenger.Fitness > mother.Fitness {
			mother = challenger
		}

		var father *genetics.Entity[C]
		for {
			father = pop.EntityAt(pop.Rand.Intn(origSize))
			challenger = pop.EntityAt(pop.Rand.Intn(origSize))
			if challenger.Fitness > father.Fitness {
				father = challenger
			}
			if father != mother {
				break
			}
		}

		st.count++
		return mother, father, float64(st.count) > float64(origSize)*pop.CrossoverRatio
	}
	return selectTwo, reset
}

// RouletteOne builds a fitness-proportionate SelectOne binding.
// Negative fitness values are clamped to zero before the wheel is
// built, so callers with mixed-sign objectives should rebase their
// fitness if they want losers to retain selection pressure.
func RouletteOne[C genetics.Chromosome[C]]() (func(pop *genetics.Population[C]) (*genetics.Entity[C], bool), func()) {
	st := &state{}
	reset := func() { st.count = 0 }
	selectOne := func(pop *genetics.Population[C]) (*genetics.Entity[C], bool) {
		origSize := pop.OrigSize()
		if origSize < 1 {
			return nil, true
		}

		probabilities := make([]float64, origSize)
		for i := 0; i < origSize; i++ {
			f := pop.EntityAt(i).Fitness
			if f < 0 {
				f = 0
			}
			probabilities[i] = f
		}

		idx := gaulmath.SingleRouletteThrow(pop.Rand, probabilities)
		if idx < 0 {
			idx = pop.Rand.Intn(origSize)
		}
		st.count++
		return pop.EntityAt(idx), float64(st.count) > float64(origSize)*pop.MutationRatio
	}
	return selectOne, reset
}

// Sequential builds a SelectOne binding that walks the parent
// generation from rank 0 upward exactly once.
func Sequential[C genetics.Chromosome[C]]() (func(pop *genetics.Population[C]) (*genetics.Entity[C], bool), func()) {
	st := &state{}
	reset := func() { st.count = 0 }
	selectOne := func(pop *genetics.Population[C]) (*genetics.Entity[C], bool) {
		origSize := pop.OrigSize()
		if st.count >= origSize {
			return nil, true
		}
		e := pop.EntityAt(st.count)
		st.count++
		return e, false
	}
	return selectOne, reset
}
