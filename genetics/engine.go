package genetics

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// BatchEvaluator distributes the evaluation of a batch of pending
// entities, writing each entity's Fitness in place. The worker pools in
// the genetics/parallel package satisfy this interface; the driver
// never relies on completion order between entities.
type BatchEvaluator[C Chromosome[C]] interface {
	EvaluateAll(ctx context.Context, pop *Population[C], pending []*Entity[C]) error
}

// BatchAdapter is implemented by evaluators whose workers can also run
// the local-search step remotely, returning the adapted chromosome
// bytes to the driver. AdaptAll reports handled=false when the pool has
// no remote adapt bound; the driver then falls back to running
// Ops.Adapt itself.
type BatchAdapter[C Chromosome[C]] interface {
	AdaptAll(ctx context.Context, pop *Population[C], pending []*Entity[C], policy AdaptPolicy) (bool, error)
}

// Evolve runs the generational engine: crossover, mutation,
// adapt-and-evaluate, and survival, once per generation, until
// maxGenerations is reached or Ops.GenerationHook returns false. It
// returns the number of generations actually completed.
//
// Preconditions: the operator contract must be fully bound for
// evaluate/select_one/select_two/mutate/crossover (and adapt, whenever
// pop.Scheme is not DarwinScheme); pop.Size() must be at least 1.
func Evolve[C Chromosome[C]](ctx context.Context, pop *Population[C], maxGenerations int) (int, error) {
	return EvolveParallel(ctx, pop, maxGenerations, nil)
}

// EvolveParallel is Evolve with the per-entity evaluation distributed
// through eval. When eval also implements BatchAdapter, the adapt step
// is handed to it as well; selection, crossover, mutation, survival, and
// ranking all stay on the calling goroutine. A nil eval degrades to
// sequential evaluation.
func EvolveParallel[C Chromosome[C]](ctx context.Context, pop *Population[C], maxGenerations int, eval BatchEvaluator[C]) (int, error) {
	if opts, ok := gaul.FromContext(ctx); ok {
		if err := ApplyOptions(pop, opts); err != nil {
			return 0, err
		}
	}
	if err := pop.Ops.Validate(pop.Scheme != DarwinScheme); err != nil {
		return 0, err
	}
	if pop.Size() == 0 {
		return 0, errorsMissingBinding("non-empty population")
	}

	// Initial conditioning: evaluate every entity whose fitness is the
	// sentinel, then sort.
	if err := evaluatePending(ctx, pop, eval); err != nil {
		return 0, err
	}
	pop.SortPopulation()

	generation := 0
	for ; generation < maxGenerations; generation++ {
		select {
		case <-ctx.Done():
			return generation, ctx.Err()
		default:
		}

		if pop.Ops.GenerationHook != nil && !pop.Ops.GenerationHook(generation, pop) {
			gaul.InfoLog(fmt.Sprintf("evolution stopped by generation hook at generation %d", generation))
			return generation, nil
		}

		if err := runGenerationParallel(ctx, pop, eval); err != nil {
			return generation, err
		}
		pop.Generation = generation + 1
		gaul.DebugLog(fmt.Sprintf("generation %d complete: census %d, best fitness %g",
			pop.Generation, pop.Size(), pop.EntityAt(0).Fitness))
	}
	return generation, nil
}

// evaluatePending evaluates every live entity whose fitness is still
// the sentinel, either one at a time on the driver or as one batch
// handed to eval.
func evaluatePending[C Chromosome[C]](ctx context.Context, pop *Population[C], eval BatchEvaluator[C]) error {
	if eval == nil {
		for _, e := range pop.rankView {
			if err := pop.EnsureEvaluated(e); err != nil {
				return err
			}
		}
		return nil
	}
	var pending []*Entity[C]
	for _, e := range pop.rankView {
		if e.Unevaluated() {
			pending = append(pending, e)
		}
	}
	return eval.EvaluateAll(ctx, pop, pending)
}

// runGeneration performs one generation's crossover, mutation,
// adapt-and-evaluate, and survival phases with sequential evaluation.
// It is shared between Evolve and Archipelago's per-island step.
func runGeneration[C Chromosome[C]](pop *Population[C]) error {
	return runGenerationParallel(context.Background(), pop, nil)
}

func runGenerationParallel[C Chromosome[C]](ctx context.Context, pop *Population[C], eval BatchEvaluator[C]) error {
	pop.origSize = pop.Size()

	if err := crossoverPhase(pop); err != nil {
		return errors.Wrap(err, "crossover phase failed")
	}
	if err := mutationPhase(pop); err != nil {
		return errors.Wrap(err, "mutation phase failed")
	}
	if err := adaptAndEvaluatePhase(ctx, pop, eval); err != nil {
		return errors.Wrap(err, "adapt-and-evaluate phase failed")
	}
	if err := survivalPhase(ctx, pop, eval); err != nil {
		return errors.Wrap(err, "survival phase failed")
	}
	return nil
}

// crossoverPhase repeatedly calls Ops.SelectTwo, allocating two new
// entities (daughter, son) and invoking Ops.Crossover for each
// non-null pair, until SelectTwo reports done. Skipped entirely when
// CrossoverRatio <= 0.
func crossoverPhase[C Chromosome[C]](pop *Population[C]) error {
	if pop.CrossoverRatio <= 0 {
		return nil
	}
	if pop.Ops.ResetSelection != nil {
		pop.Ops.ResetSelection()
	}
	for {
		mother, father, done := pop.Ops.SelectTwo(pop)
		if done {
			return nil
		}
		if mother == nil || father == nil {
			continue
		}
		daughter, err := pop.GetFreeEntity()
		if err != nil {
			return err
		}
		son, err := pop.GetFreeEntity()
		if err != nil {
			return err
		}
		pop.Ops.Crossover(pop, mother, father, daughter, son)
	}
}

// mutationPhase repeatedly calls Ops.SelectOne, allocating one new
// entity (daughter) and invoking Ops.Mutate for each non-null mother,
// until SelectOne reports done. Skipped entirely when MutationRatio <= 0.
func mutationPhase[C Chromosome[C]](pop *Population[C]) error {
	if pop.MutationRatio <= 0 {
		return nil
	}
	if pop.Ops.ResetSelection != nil {
		pop.Ops.ResetSelection()
	}
	for {
		mother, done := pop.Ops.SelectOne(pop)
		if done {
			return nil
		}
		if mother == nil {
			continue
		}
		daughter, err := pop.GetFreeEntity()
		if err != nil {
			return err
		}
		pop.Ops.Mutate(pop, mother, daughter)
	}
}

// adaptAndEvaluatePhase applies pop.Scheme to the parents (ranks
// [0, origSize)) and children (ranks [origSize, n)) produced this
// generation. Under the Darwinian child policy the children's
// evaluations are independent of each other, so they may be handed to
// eval as one batch; Baldwinian/Lamarckian groups are distributed the
// same way whenever eval can run the adapt step on its workers.
func adaptAndEvaluatePhase[C Chromosome[C]](ctx context.Context, pop *Population[C], eval BatchEvaluator[C]) error {
	parents := append([]*Entity[C](nil), pop.rankView[:pop.origSize]...)
	children := append([]*Entity[C](nil), pop.rankView[pop.origSize:]...)

	if err := adaptGroup(ctx, pop, eval, parents, pop.Scheme.Parent); err != nil {
		return err
	}

	if pop.Scheme.Child != AdaptNone {
		return adaptGroup(ctx, pop, eval, children, pop.Scheme.Child)
	}

	if eval != nil {
		var pending []*Entity[C]
		for _, child := range children {
			if child.Unevaluated() {
				pending = append(pending, child)
			}
		}
		return eval.EvaluateAll(ctx, pop, pending)
	}
	for _, child := range children {
		if err := pop.EnsureEvaluated(child); err != nil {
			return err
		}
	}
	return nil
}

// adaptGroup applies the adapt policy to one group of entities,
// distributing the step through eval when its workers can run adapt
// remotely and falling back to the driver's Ops.Adapt otherwise.
func adaptGroup[C Chromosome[C]](ctx context.Context, pop *Population[C], eval BatchEvaluator[C], group []*Entity[C], policy AdaptPolicy) error {
	if policy == AdaptNone || len(group) == 0 {
		return nil
	}
	if adapter, ok := eval.(BatchAdapter[C]); ok {
		handled, err := adapter.AdaptAll(ctx, pop, group, policy)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	for _, e := range group {
		if err := pop.applyAdapt(e, policy); err != nil {
			return err
		}
	}
	return nil
}

// applyAdapt runs Ops.Adapt on e and folds the result back according to
// policy: Baldwinian adoption keeps only the adapted fitness; Lamarckian
// adoption keeps both the adapted fitness and chromosomes. If Adapt
// returns e itself (no separate "adult" slot was allocated), there is
// nothing further to fold back or release.
func (p *Population[C]) applyAdapt(e *Entity[C], policy AdaptPolicy) error {
	adult, err := p.Ops.Adapt(p, e)
	if err != nil {
		return errors.Wrap(err, "adapt callback failed")
	}
	if adult == nil {
		return errors.New("adapt callback returned a nil adult")
	}
	if adult == e {
		return p.EnsureEvaluated(e)
	}
	if err := p.EnsureEvaluated(adult); err != nil {
		return err
	}
	e.Fitness = adult.Fitness
	if policy == AdaptLamarck {
		e.Genotype = adult.Genotype
		e.Phenotype = adult.Phenotype
		adult.Phenotype = nil
	}
	return p.Dereference(adult)
}

// survivalPhase applies the elitism policy (and its rescore-parents
// modifier), re-sorts, then genocides down to StableSize.
func survivalPhase[C Chromosome[C]](ctx context.Context, pop *Population[C], eval BatchEvaluator[C]) error {
	if pop.RescoreParents {
		for i := 0; i < pop.origSize && i < len(pop.rankView); i++ {
			if err := pop.Evaluate(pop.rankView[i]); err != nil {
				return err
			}
		}
	}

	switch pop.Elitism {
	case ElitismParentsDie:
		parents := append([]*Entity[C](nil), pop.rankView[:pop.origSize]...)
		for _, parent := range parents {
			if err := pop.Dereference(parent); err != nil {
				return err
			}
		}
	case ElitismOneParentSurvives:
		if pop.origSize > 0 {
			parents := pop.rankView[:pop.origSize]
			best := parents[0]
			for _, parent := range parents[1:] {
				if parent.Fitness > best.Fitness {
					best = parent
				}
			}
			for _, parent := range append([]*Entity[C](nil), parents...) {
				if parent == best {
					continue
				}
				if err := pop.Dereference(parent); err != nil {
					return err
				}
			}
		}
	default:
		// ElitismParentsSurvive: keep parents in place.
	}

	if err := evaluatePending(ctx, pop, eval); err != nil {
		return err
	}
	pop.SortPopulation()

	return pop.Genocide(pop.StableSize)
}
