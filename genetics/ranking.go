package genetics

import "github.com/pkg/errors"

// EnsureEvaluated calls Ops.Evaluate on e if its fitness is still the
// sentinel. Any engine phase that consumes ordering must do this before
// relying on rank order.
func (p *Population[C]) EnsureEvaluated(e *Entity[C]) error {
	if !e.Unevaluated() {
		return nil
	}
	return p.Evaluate(e)
}

// Evaluate unconditionally (re-)computes e's fitness via Ops.Evaluate.
func (p *Population[C]) Evaluate(e *Entity[C]) error {
	if p.Ops.Evaluate == nil {
		return errorsMissingBinding("Evaluate")
	}
	ok, err := p.Ops.Evaluate(p, e)
	if err != nil {
		return errors.Wrap(err, "evaluate callback failed")
	}
	if !ok {
		return errors.New("evaluate callback reported failure")
	}
	return nil
}

// SortPopulation sorts the rank-view by fitness descending. Ordering is
// total; ties are broken arbitrarily, and the engine must not depend on
// tie ordering.
func (p *Population[C]) SortPopulation() {
	p.resortRankView()
}

// ScoreAndSort re-evaluates every live entity whose fitness is still the
// sentinel, then sorts.
func (p *Population[C]) ScoreAndSort() error {
	for _, e := range p.rankView {
		if err := p.EnsureEvaluated(e); err != nil {
			return err
		}
	}
	p.SortPopulation()
	return nil
}

// RescoreAndSort unconditionally re-evaluates every live entity, then
// sorts.
func (p *Population[C]) RescoreAndSort() error {
	for _, e := range p.rankView {
		if err := p.Evaluate(e); err != nil {
			return err
		}
	}
	p.SortPopulation()
	return nil
}
