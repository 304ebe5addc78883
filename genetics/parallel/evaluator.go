// Package parallel provides three structurally identical parallel
// evaluator variants: a goroutine thread pool, an os/exec process pool
// communicating over pipes, and an MPI-style rank ring. All three
// distribute the evaluation of pending entities across workers, and the
// rank pool can distribute the adapt step too; selection, crossover,
// mutation, survival, and ranking always remain on the driver.
package parallel

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"github.com/gaul-go/gaul/genetics"
)

// Evaluator distributes the evaluation of a batch of pending entities
// across a fixed-size worker pool, writing each entity's Fitness field
// in place. Ordering between concurrent evaluations is not guaranteed;
// callers must not rely on completion order.
type Evaluator[C genetics.Chromosome[C]] interface {
	// EvaluateAll assigns every entity in pending to a free worker,
	// blocking until all have been evaluated, cancelled, or a worker
	// failure has been reported. On cancellation or worker failure, the
	// affected entities' fitness is reset to gaul.MinFitness before the
	// error is returned, so a transport failure never leaves a partial
	// evaluation half-applied.
	EvaluateAll(ctx context.Context, pop *genetics.Population[C], pending []*genetics.Entity[C]) error
	// Close releases the worker pool.
	Close() error
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// NumProcessesFromEnv reads GAUL_NUM_PROCESSES, defaulting to 8.
func NumProcessesFromEnv() int {
	return envInt("GAUL_NUM_PROCESSES", 8)
}

// NumThreadsFromEnv reads GAUL_NUM_THREADS, defaulting to 4.
func NumThreadsFromEnv() int {
	return envInt("GAUL_NUM_THREADS", 4)
}

// NumMPIRanksFromEnv reads GAUL_NUM_MPI_RANKS, defaulting to the number
// of available CPUs, since no rank count is handed down by an actual
// MPI launcher.
func NumMPIRanksFromEnv() int {
	return envInt("GAUL_NUM_MPI_RANKS", runtime.NumCPU())
}
