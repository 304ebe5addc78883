package genetics

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WritePopulation dumps p to w as a small text header (version, N, stable
// and max size) followed by one record per entity containing its fitness
// then its hex-encoded chromosome bytes, one chromosome per line. This
// format is an optional collaborator, not part of the core engine's
// contract, and phenotype data is never persisted.
func WritePopulation[C Chromosome[C]](w io.Writer, p *Population[C]) error {
	if _, err := fmt.Fprintf(w, "gaul-population 1 %d %d %d\n", p.NumChromosomes, p.StableSize, p.MaxSize); err != nil {
		return err
	}
	for _, e := range p.rankView {
		if _, err := fmt.Fprintf(w, "entity %d %.17g\n", e.id, e.Fitness); err != nil {
			return err
		}
		for _, c := range e.Genotype {
			raw, err := c.ToBytes()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "chromosome %s\n", hex.EncodeToString(raw)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadPopulation loads a population previously written by
// WritePopulation, reconstructing chromosomes via a zero-value instance
// of C's FromBytes method. The returned population has not been
// speciated, seeded, or sorted; the caller should call SortPopulation
// once all entities are loaded.
func ReadPopulation[C Chromosome[C]](r io.Reader, ops *Operators[C]) (*Population[C], error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, errors.New("empty population dump")
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 5 || header[0] != "gaul-population" {
		return nil, errors.Errorf("malformed population header: %q", scanner.Text())
	}
	numChromosomes, err := strconv.Atoi(header[2])
	if err != nil {
		return nil, err
	}
	stableSize, err := strconv.Atoi(header[3])
	if err != nil {
		return nil, err
	}
	maxSize, err := strconv.Atoi(header[4])
	if err != nil {
		return nil, err
	}

	pop, err := NewPopulation[C](stableSize, maxSize, numChromosomes, ops)
	if err != nil {
		return nil, err
	}

	var zero C
	var current *Entity[C]
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "entity":
			if len(fields) != 3 {
				return nil, errors.Errorf("malformed entity line: %q", line)
			}
			fitness, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, err
			}
			e, err := pop.GetFreeEntity()
			if err != nil {
				return nil, err
			}
			e.Genotype = e.Genotype[:0]
			e.Fitness = fitness
			current = e
		case "chromosome":
			if current == nil || len(fields) != 2 {
				return nil, errors.Errorf("malformed chromosome line: %q", line)
			}
			raw, err := hex.DecodeString(fields[1])
			if err != nil {
				return nil, err
			}
			c, err := zero.FromBytes(raw)
			if err != nil {
				return nil, err
			}
			current.Genotype = append(current.Genotype, c)
		default:
			return nil, errors.Errorf("unrecognized line: %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pop, nil
}
