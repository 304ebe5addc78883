// Command gaul-worker is the process-pool backend's child process: it
// is spawned once per worker slot by genetics/parallel.ProcessPool and
// evaluates one chromosome set per request read from stdin, writing the
// resulting fitness back to stdout. The wire protocol is line-based and
// symmetric with ProcessPool.evaluateOne: a line holding the chromosome
// count, then one hex-encoded chromosome per line, then a reply line
// holding the fitness.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gaul-go/gaul/operators/bitstring"
)

func main() {
	objective := flag.String("objective", "onemax", "name of the built-in objective to evaluate")
	flag.Parse()

	var evaluate func(chromosomes [][]byte) (float64, error)
	switch *objective {
	case "onemax":
		evaluate = onemax
	default:
		log.Fatalf("gaul-worker: unknown objective %q", *objective)
	}

	reader := bufio.NewReader(os.Stdin)
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	for {
		var numChromosomes int
		if _, err := fmt.Fscanf(reader, "%d\n", &numChromosomes); err != nil {
			return
		}

		chromosomes := make([][]byte, numChromosomes)
		for i := 0; i < numChromosomes; i++ {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			raw, err := hex.DecodeString(trimNewline(line))
			if err != nil {
				log.Fatalf("gaul-worker: malformed chromosome encoding: %v", err)
			}
			chromosomes[i] = raw
		}

		fitness, err := evaluate(chromosomes)
		if err != nil {
			log.Fatalf("gaul-worker: evaluation failed: %v", err)
		}
		fmt.Fprintf(writer, "%g\n", fitness)
		writer.Flush()
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// onemax decodes each chromosome as a bitstring.Bitstring and sums the
// number of set bits across all of them, the same objective as
// bitstring.OnemaxEvaluate but operating on raw wire bytes rather than
// an in-process Entity.
func onemax(chromosomes [][]byte) (float64, error) {
	var zero bitstring.Bitstring
	score := 0.0
	for _, raw := range chromosomes {
		c, err := zero.FromBytes(raw)
		if err != nil {
			return 0, err
		}
		score += float64(c.CountSet())
	}
	return score, nil
}
