package genetics

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// EvolveSteadyState runs the steady-state engine: each iteration
// selects at most one crossover pair and one mutant, applies the child
// adapt policy (Scheme.Child) to each new child (the parent policy is
// not applied to existing entities), and hands
// every newly created child to Ops.Replace, which encapsulates the
// replacement policy (e.g. displace the worst entity, or a probabilistic
// scheme). It returns the number of iterations actually completed.
func EvolveSteadyState[C Chromosome[C]](ctx context.Context, pop *Population[C], maxIterations int) (int, error) {
	if opts, ok := gaul.FromContext(ctx); ok {
		if err := ApplyOptions(pop, opts); err != nil {
			return 0, err
		}
	}
	if err := pop.Ops.Validate(pop.Scheme != DarwinScheme); err != nil {
		return 0, err
	}
	if pop.Ops.Replace == nil {
		return 0, errorsMissingBinding("Replace")
	}
	if pop.Size() == 0 {
		return 0, errorsMissingBinding("non-empty population")
	}

	if err := pop.ScoreAndSort(); err != nil {
		return 0, err
	}

	iteration := 0
	for ; iteration < maxIterations; iteration++ {
		select {
		case <-ctx.Done():
			return iteration, ctx.Err()
		default:
		}

		if pop.Ops.GenerationHook != nil && !pop.Ops.GenerationHook(iteration, pop) {
			gaul.InfoLog(fmt.Sprintf("steady-state evolution stopped by hook at iteration %d", iteration))
			return iteration, nil
		}

		if err := steadyStateIteration(pop); err != nil {
			return iteration, errors.Wrap(err, "steady-state iteration failed")
		}
		pop.Generation = iteration + 1
	}
	return iteration, nil
}

func steadyStateIteration[C Chromosome[C]](pop *Population[C]) error {
	// Each iteration treats the whole current population as the parent
	// generation, so the OrigSize-gated selection operators see a fresh
	// window every time.
	pop.origSize = pop.Size()
	if pop.Ops.ResetSelection != nil {
		pop.Ops.ResetSelection()
	}

	if pop.CrossoverRatio > 0 {
		mother, father, done := pop.Ops.SelectTwo(pop)
		if !done && mother != nil && father != nil {
			daughter, err := pop.GetFreeEntity()
			if err != nil {
				return err
			}
			son, err := pop.GetFreeEntity()
			if err != nil {
				return err
			}
			pop.Ops.Crossover(pop, mother, father, daughter, son)
			if err := pop.adaptOrEvaluateChild(daughter); err != nil {
				return err
			}
			if err := pop.adaptOrEvaluateChild(son); err != nil {
				return err
			}
			pop.Ops.Replace(pop, daughter)
			pop.Ops.Replace(pop, son)
		}
	}

	if pop.MutationRatio > 0 {
		mother, done := pop.Ops.SelectOne(pop)
		if !done && mother != nil {
			child, err := pop.GetFreeEntity()
			if err != nil {
				return err
			}
			pop.Ops.Mutate(pop, mother, child)
			if err := pop.adaptOrEvaluateChild(child); err != nil {
				return err
			}
			pop.Ops.Replace(pop, child)
		}
	}

	// An iteration is a phase boundary, so the rank-view must be correct
	// again before the next Replace consults it.
	pop.SortPopulation()
	return nil
}

// adaptOrEvaluateChild applies the child adapt policy to a single
// steady-state child, or evaluates it directly when the policy is none.
func (p *Population[C]) adaptOrEvaluateChild(child *Entity[C]) error {
	if p.Scheme.Child == AdaptNone {
		return p.EnsureEvaluated(child)
	}
	return p.applyAdapt(child, p.Scheme.Child)
}
