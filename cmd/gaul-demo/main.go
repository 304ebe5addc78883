// Command gaul-demo runs one of the built-in example scenarios
// (onemax, text-match, curve-fit, archipelago text-match, steady-state
// text-match) end to end: flag-parsed scenario selection, a context
// cancelled by Ctrl+C, and an NPZ dump of the fitness history on
// completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaul-go/gaul"
	"github.com/gaul-go/gaul/genetics"
	"github.com/gaul-go/gaul/genetics/parallel"
	"github.com/gaul-go/gaul/operators/bitstring"
	"github.com/gaul-go/gaul/operators/charstring"
	"github.com/gaul-go/gaul/operators/realvalue"
	"github.com/gaul-go/gaul/operators/selection"
	"github.com/gaul-go/gaul/stats"
)

func main() {
	scenario := flag.String("scenario", "onemax", "scenario to run [onemax, text-match, curve-fit, archipelago, steady-state]")
	generations := flag.Int("generations", 100, "maximum number of generations/iterations")
	outPath := flag.String("out", "./gaul-demo.npz", "path to write the fitness-history NPZ file")
	logLevel := flag.String("log_level", "info", "logger level [debug, info, warn, error]")
	seed := flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")

	flag.Parse()

	if err := gaul.InitLogger(*logLevel); err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		fmt.Println("Press Ctrl+C to stop")
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
		<-signals
		cancel()
	}()

	rng := rand.New(rand.NewSource(*seed))
	history := &stats.History{}

	var err error
	switch *scenario {
	case "onemax":
		err = runOnemax(ctx, rng, *generations, history)
	case "text-match":
		err = runTextMatch(ctx, rng, *generations, history)
	case "curve-fit":
		err = runCurveFit(ctx, rng, *generations, history)
	case "archipelago":
		err = runArchipelago(ctx, rng, *generations, history)
	case "steady-state":
		err = runSteadyState(ctx, rng, *generations, history)
	default:
		log.Fatalf("unsupported scenario: %s", *scenario)
	}
	if err != nil {
		log.Fatalf("scenario %s failed: %v", *scenario, err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("failed to create NPZ output file: ", err)
	}
	defer out.Close()
	if err := history.WriteNPZ(out); err != nil {
		log.Fatal("failed to write NPZ output: ", err)
	}
	fmt.Printf(">>> Wrote fitness history to %s\n", *outPath)
}

const onemaxBits = 64

func runOnemax(ctx context.Context, rng *rand.Rand, generations int, history *stats.History) error {
	ops := &genetics.Operators[*bitstring.Bitstring]{
		NewChromosome: bitstring.NewChromosome(onemaxBits),
		Evaluate:      bitstring.OnemaxEvaluate,
		Seed:          bitstring.SeedRandom,
		Mutate:        bitstring.MutateSinglepoint,
		Crossover:     bitstring.CrossoverDoublepoints,
	}
	selectOne, resetOne := selection.BestOfTwoOne[*bitstring.Bitstring]()
	selectTwo, resetTwo := selection.BestOfTwoTwo[*bitstring.Bitstring]()
	ops.SelectOne = selectOne
	ops.SelectTwo = selectTwo
	ops.ResetSelection = func() { resetOne(); resetTwo() }
	ops.GenerationHook = func(generation int, pop *genetics.Population[*bitstring.Bitstring]) bool {
		recordBest(history, pop.RankView())
		return true
	}

	pop, err := genetics.NewPopulation(100, 400, 1, ops)
	if err != nil {
		return err
	}
	pop.Rand = rng
	pop.CrossoverRatio = 0.9
	pop.MutationRatio = 0.1
	pop.Elitism = genetics.ElitismParentsDie
	if err := pop.Seed(pop.StableSize); err != nil {
		return err
	}

	completed, err := genetics.Evolve(ctx, pop, generations)
	fmt.Printf("onemax: completed %d generations, best fitness %.2f\n", completed, pop.EntityAt(0).Fitness)
	return err
}

const textMatchTarget = "When we reflect on this struggle, we may console ourselves."

func textMatchOps(rng *rand.Rand) *genetics.Operators[*charstring.Charstring] {
	evaluate := charstring.TargetMatchEvaluate(textMatchTarget)
	ops := &genetics.Operators[*charstring.Charstring]{
		NewChromosome: charstring.NewChromosome(len(textMatchTarget)),
		Evaluate:      evaluate,
		Seed:          charstring.SeedRandom,
		Mutate:        charstring.MutateSinglepoint,
		Crossover:     charstring.CrossoverSinglepoint,
	}
	selectOne, resetOne := selection.BestOfTwoOne[*charstring.Charstring]()
	selectTwo, resetTwo := selection.BestOfTwoTwo[*charstring.Charstring]()
	ops.SelectOne = selectOne
	ops.SelectTwo = selectTwo
	ops.ResetSelection = func() { resetOne(); resetTwo() }
	return ops
}

func runTextMatch(ctx context.Context, rng *rand.Rand, generations int, history *stats.History) error {
	ops := textMatchOps(rng)
	ops.GenerationHook = func(generation int, pop *genetics.Population[*charstring.Charstring]) bool {
		recordBest(history, pop.RankView())
		if generation%10 == 0 {
			fmt.Printf("%d: %q (fitness %.2f)\n", generation, pop.EntityAt(0).Genotype[0].String(), pop.EntityAt(0).Fitness)
		}
		return true
	}

	pop, err := genetics.NewPopulation(100, 400, 1, ops)
	if err != nil {
		return err
	}
	pop.Rand = rng
	pop.CrossoverRatio = 0.9
	pop.MutationRatio = 0.1
	pop.Elitism = genetics.ElitismParentsSurvive
	if err := pop.Seed(pop.StableSize); err != nil {
		return err
	}

	completed, err := genetics.Evolve(ctx, pop, generations)
	fmt.Printf("text-match: completed %d generations, best %q\n", completed, pop.EntityAt(0).Genotype[0].String())
	return err
}

func runCurveFit(ctx context.Context, rng *rand.Rand, generations int, history *stats.History) error {
	x := []float64{0.1, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0}
	y := make([]float64, len(x))
	for i, xv := range x {
		y[i] = xv*0.75*math.Exp(xv*0.95+0.23) + 0.71
	}

	ops := &genetics.Operators[*realvalue.RealValue]{
		NewChromosome: realvalue.NewChromosome(4),
		Evaluate:      realvalue.CurveFitEvaluate(x, y),
		Seed:          realvalue.SeedUniform(2.0),
		Mutate:        realvalue.MutateSinglepointDrift(0.1),
		Crossover:     realvalue.CrossoverDoublepoints,
	}
	selectOne, resetOne := selection.BestOfTwoOne[*realvalue.RealValue]()
	selectTwo, resetTwo := selection.BestOfTwoTwo[*realvalue.RealValue]()
	ops.SelectOne = selectOne
	ops.SelectTwo = selectTwo
	ops.ResetSelection = func() { resetOne(); resetTwo() }
	ops.GenerationHook = func(generation int, pop *genetics.Population[*realvalue.RealValue]) bool {
		recordBest(history, pop.RankView())
		return true
	}

	pop, err := genetics.NewPopulation(200, 800, 1, ops)
	if err != nil {
		return err
	}
	pop.Rand = rng
	pop.CrossoverRatio = 0.9
	pop.MutationRatio = 0.2
	pop.Elitism = genetics.ElitismParentsSurvive
	if err := pop.Seed(pop.StableSize); err != nil {
		return err
	}

	completed, err := genetics.Evolve(ctx, pop, generations)
	fmt.Printf("curve-fit: completed %d generations, best fitness %.4f\n", completed, pop.EntityAt(0).Fitness)
	return err
}

func runArchipelago(ctx context.Context, rng *rand.Rand, generations int, history *stats.History) error {
	const numIslands = 3
	islands := make([]*genetics.Population[*charstring.Charstring], numIslands)
	for i := range islands {
		ops := textMatchOps(rng)
		pop, err := genetics.NewPopulation(50, 200, 1, ops)
		if err != nil {
			return err
		}
		pop.Rand = rng
		pop.CrossoverRatio = 0.9
		pop.MutationRatio = 0.1
		pop.MigrationRatio = 0.05
		pop.Elitism = genetics.ElitismParentsSurvive
		if err := pop.Seed(pop.StableSize); err != nil {
			return err
		}
		islands[i] = pop
	}

	archipelago := genetics.NewArchipelago(islands)
	archipelago.MigrateFunc = parallel.MigrateRanked[*charstring.Charstring]
	completed, err := archipelago.Evolve(ctx, generations)
	for _, isl := range islands {
		recordBest(history, isl.RankView())
	}
	fmt.Printf("archipelago: completed %d generations across %d islands\n", completed, numIslands)
	return err
}

func runSteadyState(ctx context.Context, rng *rand.Rand, iterations int, history *stats.History) error {
	ops := textMatchOps(rng)
	ops.Replace = func(pop *genetics.Population[*charstring.Charstring], child *genetics.Entity[*charstring.Charstring]) {
		pop.SortPopulation()
		_ = pop.Genocide(pop.StableSize)
	}
	ops.GenerationHook = func(iteration int, pop *genetics.Population[*charstring.Charstring]) bool {
		if iteration%50 == 0 {
			recordBest(history, pop.RankView())
		}
		return true
	}

	pop, err := genetics.NewPopulation(100, 130, 1, ops)
	if err != nil {
		return err
	}
	pop.Rand = rng
	pop.CrossoverRatio = 0.9
	pop.MutationRatio = 0.1
	if err := pop.Seed(pop.StableSize); err != nil {
		return err
	}

	completed, err := genetics.EvolveSteadyState(ctx, pop, iterations)
	fmt.Printf("steady-state: completed %d iterations, best %q\n", completed, pop.EntityAt(0).Genotype[0].String())
	return err
}

func recordBest[C genetics.Chromosome[C]](history *stats.History, rankView []*genetics.Entity[C]) {
	fitness := make(stats.Floats, len(rankView))
	for i, e := range rankView {
		fitness[i] = e.Fitness
	}
	history.Record(fitness)
}
