package parallel

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/gaul-go/gaul"
	"github.com/gaul-go/gaul/genetics"
)

// worker is one long-lived cmd/gaul-worker subprocess, reused across
// every EvaluateAll call until Close.
type worker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
}

// ProcessPool distributes evaluation across a fixed number of
// cmd/gaul-worker subprocesses, each addressed over its own stdin/stdout
// pipe. The wire format in is a line holding the chromosome count,
// followed by one hex-encoded ToBytes chromosome per line; out is one
// fitness float64 per line.
type ProcessPool[C genetics.Chromosome[C]] struct {
	// Command is the argv used to launch each worker, typically
	// {"gaul-worker", "-objective", name}. Command[0] is resolved with
	// exec.LookPath semantics by exec.Command.
	Command []string

	workers []*worker
	next    int
	mu      sync.Mutex
}

// NewProcessPool launches numWorkers copies of command, defaulting
// numWorkers to GAUL_NUM_PROCESSES when <= 0.
func NewProcessPool[C genetics.Chromosome[C]](numWorkers int, command []string) (*ProcessPool[C], error) {
	if numWorkers <= 0 {
		numWorkers = NumProcessesFromEnv()
	}
	pp := &ProcessPool[C]{Command: command}
	for i := 0; i < numWorkers; i++ {
		w, err := pp.spawn()
		if err != nil {
			pp.Close()
			return nil, err
		}
		pp.workers = append(pp.workers, w)
	}
	return pp, nil
}

func (pp *ProcessPool[C]) spawn() (*worker, error) {
	cmd := exec.Command(pp.Command[0], pp.Command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &worker{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

func (pp *ProcessPool[C]) pick() *worker {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	w := pp.workers[pp.next%len(pp.workers)]
	pp.next++
	return w
}

// evaluateOne ships one entity's chromosomes to a worker and reads back
// its fitness, serializing each chromosome with ToBytes.
func (pp *ProcessPool[C]) evaluateOne(w *worker, e *genetics.Entity[C]) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.stdin, "%d\n", len(e.Genotype)); err != nil {
		return 0, err
	}
	for _, c := range e.Genotype {
		raw, err := c.ToBytes()
		if err != nil {
			return 0, err
		}
		if _, err := fmt.Fprintf(w.stdin, "%s\n", hex.EncodeToString(raw)); err != nil {
			return 0, err
		}
	}

	line, err := w.stdout.ReadString('\n')
	if err != nil {
		return 0, err
	}
	var fitness float64
	if _, err := fmt.Sscanf(line, "%g", &fitness); err != nil {
		return 0, err
	}
	return fitness, nil
}

func (pp *ProcessPool[C]) EvaluateAll(ctx context.Context, pop *genetics.Population[C], pending []*genetics.Entity[C]) error {
	if len(pending) == 0 {
		return nil
	}

	sem := make(chan struct{}, len(pp.workers))
	errChan := make(chan error, len(pending))
	var wg sync.WaitGroup

	cancelled := false
	for _, e := range pending {
		select {
		case <-ctx.Done():
			cancelled = true
		case sem <- struct{}{}:
		}
		if cancelled {
			break
		}

		wg.Add(1)
		go func(entity *genetics.Entity[C]) {
			defer wg.Done()
			defer func() { <-sem }()
			w := pp.pick()
			fitness, err := pp.evaluateOne(w, entity)
			if err != nil {
				errChan <- &genetics.WorkerFailedError{Cause: err}
				return
			}
			entity.Fitness = fitness
			errChan <- nil
		}(e)
	}

	wg.Wait()
	close(errChan)

	var firstErr error
	for err := range errChan {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if cancelled && firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		gaul.ErrorLog("process pool evaluation aborted: " + firstErr.Error())
		for _, e := range pending {
			e.Fitness = gaul.MinFitness
		}
	}
	return firstErr
}

// Close terminates every worker subprocess, reporting the first error
// encountered while doing so.
func (pp *ProcessPool[C]) Close() error {
	var firstErr error
	for _, w := range pp.workers {
		w.stdin.Close()
		if err := w.cmd.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
