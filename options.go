package gaul

import (
	"context"
	"math/rand"
)

// Options carries the evolutionary parameters shared by a run of the
// engines. It is usually loaded once via LoadYAMLOptions or
// LoadFlatOptions and threaded through context.Context into the engine
// entry points, alongside an optional externally-seeded PRNG. Runs are
// reproducible only when that PRNG is seeded by the caller.
type Options struct {
	// StableSize is the target census after survival each generation.
	StableSize int `yaml:"stable_size"`
	// MaxSize bounds the entity pool; it must be at least StableSize
	// plus however many children a generation can transiently produce.
	MaxSize int `yaml:"max_size"`

	CrossoverRatio float64 `yaml:"crossover_ratio"`
	MutationRatio  float64 `yaml:"mutation_ratio"`
	MigrationRatio float64 `yaml:"migration_ratio"`

	// Scheme and Elitism carry the policy names resolved by
	// genetics.ParseScheme / genetics.ParseElitism ("darwin",
	// "lamarck-children", ..., "parents-die", "rescore-parents", ...).
	// They are kept as strings here so this package stays independent of
	// the genetics package's types.
	Scheme  string `yaml:"scheme"`
	Elitism string `yaml:"elitism"`

	MaxGenerations int `yaml:"max_generations"`
	NumRuns        int `yaml:"num_runs"`

	// LogLevel configures the package-wide logger when loaded via
	// LoadYAMLOptions.
	LogLevel string `yaml:"log_level"`

	// NumProcesses/NumThreads/NumMPIRanks are loaded from configuration
	// only. The genetics/parallel evaluators do not read them; their
	// sizes come from the constructor argument or the GAUL_NUM_*
	// environment variables.
	NumProcesses int `yaml:"num_processes"`
	NumThreads   int `yaml:"num_threads"`
	NumMPIRanks  int `yaml:"num_mpi_ranks"`

	// Rand is the PRNG used by built-in operators and the engines'
	// stochastic decisions (migration throws, etc). A nil Rand leaves the
	// population's own Rand in place, which NewPopulation seeds from the
	// current time.
	Rand *rand.Rand `yaml:"-"`
}

// Validate checks that ratios fall in [0, 1] and sizes are sane.
func (o *Options) Validate() error {
	if o.StableSize <= 0 {
		return ErrMisconfigured
	}
	if o.MaxSize < o.StableSize {
		return ErrMisconfigured
	}
	for _, ratio := range []float64{o.CrossoverRatio, o.MutationRatio, o.MigrationRatio} {
		if ratio < 0 || ratio > 1 {
			return ErrMisconfigured
		}
	}
	return nil
}

// key is an unexported type for the context key defined in this package,
// preventing collisions with keys defined elsewhere.
type key int

var optionsKey key

// NewContext returns a Context carrying opts.
func NewContext(ctx context.Context, opts *Options) context.Context {
	return context.WithValue(ctx, optionsKey, opts)
}

// FromContext returns the Options value stored in ctx, if any.
func FromContext(ctx context.Context) (*Options, bool) {
	opts, ok := ctx.Value(optionsKey).(*Options)
	return opts, ok
}
