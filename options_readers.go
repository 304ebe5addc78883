package gaul

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// LoadYAMLOptions loads Options encoded as a YAML document, initializes
// the package logger from its log_level field, and validates the result.
func LoadYAMLOptions(r io.Reader) (*Options, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var opts Options
	if err = yaml.Unmarshal(content, &opts); err != nil {
		return nil, errors.Wrap(err, "failed to decode GAUL options from YAML")
	}
	if opts.LogLevel != "" {
		if err = InitLogger(opts.LogLevel); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	if err = opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid GAUL options")
	}
	return &opts, nil
}

// LoadFlatOptions loads Options from the legacy flat "key value" text
// configuration format (one "name value" pair per line), using loose
// numeric parsing via
// github.com/spf13/cast so that integers, floats, and bare words are all
// accepted for the same field.
func LoadFlatOptions(r io.Reader) (*Options, error) {
	opts := &Options{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 {
			return nil, errors.Errorf("line: [%s] can not be split when reading Options", line)
		}
		name, value := parts[0], strings.TrimSpace(parts[1])
		switch name {
		case "stable_size":
			opts.StableSize = cast.ToInt(value)
		case "max_size":
			opts.MaxSize = cast.ToInt(value)
		case "crossover_ratio":
			opts.CrossoverRatio = cast.ToFloat64(value)
		case "mutation_ratio":
			opts.MutationRatio = cast.ToFloat64(value)
		case "migration_ratio":
			opts.MigrationRatio = cast.ToFloat64(value)
		case "scheme":
			opts.Scheme = value
		case "elitism":
			opts.Elitism = value
		case "max_generations":
			opts.MaxGenerations = cast.ToInt(value)
		case "num_runs":
			opts.NumRuns = cast.ToInt(value)
		case "log_level":
			opts.LogLevel = value
		case "num_processes":
			opts.NumProcesses = cast.ToInt(value)
		case "num_threads":
			opts.NumThreads = cast.ToInt(value)
		case "num_mpi_ranks":
			opts.NumMPIRanks = cast.ToInt(value)
		default:
			// Unknown legacy keys (e.g. algorithm-specific parameter
			// blocks for simulated annealing, tabu, etc.) are ignored;
			// those blocks are peer collaborators, not core fields.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		if err := InitLogger(opts.LogLevel); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid GAUL options")
	}
	return opts, nil
}
