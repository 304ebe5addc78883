package genetics

import (
	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// ApplyOptions copies a loaded gaul.Options block onto pop: ratios,
// scheme, elitism (resolved from their configuration names), and the
// externally-seeded PRNG when one is supplied. Sizes are not applied
// here; they are fixed at NewPopulation time because the entity slab is
// allocated from them.
func ApplyOptions[C Chromosome[C]](pop *Population[C], opts *gaul.Options) error {
	if opts == nil {
		return errors.Wrap(gaul.ErrMisconfigured, "nil options")
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	scheme, err := ParseScheme(opts.Scheme)
	if err != nil {
		return err
	}
	elitism, rescore, err := ParseElitism(opts.Elitism)
	if err != nil {
		return err
	}

	pop.CrossoverRatio = opts.CrossoverRatio
	pop.MutationRatio = opts.MutationRatio
	pop.MigrationRatio = opts.MigrationRatio
	pop.Scheme = scheme
	pop.Elitism = elitism
	pop.RescoreParents = rescore
	if opts.Rand != nil {
		pop.Rand = opts.Rand
	}
	return nil
}
