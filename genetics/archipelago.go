package genetics

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// Archipelago drives K populations ("islands") in parallel with cyclic
// migration between generations. Each island must have a fully bound
// operator contract and is tagged with its index in [0, K).
type Archipelago[C Chromosome[C]] struct {
	Islands []*Population[C]

	// MigrateFunc, if set, replaces the sequential cyclic clone below as
	// the migration step, e.g. with genetics/parallel's rank-addressed
	// goroutine ring. Receives the archipelago itself so it can reach
	// every island.
	MigrateFunc func(a *Archipelago[C]) error
}

// NewArchipelago tags each island with its index and returns the
// archipelago. Islands must already be constructed and seeded.
func NewArchipelago[C Chromosome[C]](islands []*Population[C]) *Archipelago[C] {
	for i, isl := range islands {
		isl.IslandTag = i
	}
	return &Archipelago[C]{Islands: islands}
}

// Evolve runs the archipelago for up to maxGenerations generations,
// stopping early when any island's Ops.GenerationHook returns false. It
// returns the number of generations actually completed.
func (a *Archipelago[C]) Evolve(ctx context.Context, maxGenerations int) (int, error) {
	opts, hasOpts := gaul.FromContext(ctx)
	for _, isl := range a.Islands {
		if hasOpts {
			if err := ApplyOptions(isl, opts); err != nil {
				return 0, err
			}
		}
		if err := isl.Ops.Validate(isl.Scheme != DarwinScheme); err != nil {
			return 0, err
		}
		if isl.Size() == 0 {
			return 0, errorsMissingBinding("non-empty population")
		}
		if err := isl.ScoreAndSort(); err != nil {
			return 0, err
		}
	}

	generation := 0
	for ; generation < maxGenerations; generation++ {
		select {
		case <-ctx.Done():
			return generation, ctx.Err()
		default:
		}

		stop := false
		for _, isl := range a.Islands {
			if isl.Ops.GenerationHook != nil && !isl.Ops.GenerationHook(generation, isl) {
				stop = true
				break
			}
		}
		if stop {
			return generation, nil
		}

		if err := a.migrateStep(); err != nil {
			return generation, errors.Wrap(err, "migration failed")
		}
		for _, isl := range a.Islands {
			isl.SortPopulation()
		}
		for _, isl := range a.Islands {
			if err := runGeneration(isl); err != nil {
				return generation, errors.Wrap(err, "island generation failed")
			}
			isl.Generation = generation + 1
		}
	}
	return generation, nil
}

// migrateStep runs a.MigrateFunc when bound, falling back to the
// sequential in-process migrate below.
func (a *Archipelago[C]) migrateStep() error {
	if a.MigrateFunc != nil {
		return a.MigrateFunc(a)
	}
	return a.migrate()
}

// migrate clones entities between neighboring islands on a cyclic
// topology (island i feeds island i-1, and island 0 feeds island K-1),
// with each entity cloned independently at probability equal to the
// source island's MigrationRatio. Every island's migrant set is chosen
// before any clone is applied, so an immigrant that arrives during this
// step never re-migrates onward within the same generation.
func (a *Archipelago[C]) migrate() error {
	k := len(a.Islands)
	if k < 2 {
		return nil
	}

	migrants := make([][]*Entity[C], k)
	for i, src := range a.Islands {
		for _, e := range src.RankView() {
			if src.Rand.Float64() < src.MigrationRatio {
				migrants[i] = append(migrants[i], e)
			}
		}
	}

	total := 0
	for i := 1; i < k; i++ {
		dst := a.Islands[i-1]
		for _, e := range migrants[i] {
			if _, err := dst.CloneEntity(e); err != nil {
				return err
			}
			total++
		}
	}
	dst := a.Islands[k-1]
	for _, e := range migrants[0] {
		if _, err := dst.CloneEntity(e); err != nil {
			return err
		}
		total++
	}
	gaul.DebugLog(fmt.Sprintf("archipelago: migrated %d clones across %d islands", total, k))
	return nil
}
