package parallel

import (
	"sync"

	"github.com/gaul-go/gaul/genetics"
)

// MigrateRanked is a rank-addressed variant of an archipelago's
// migration step, replacing the driver's sequential cyclic clone with
// one goroutine per island: island i is rank i, sends its migrants to
// rank i-1, and receives from rank i+1, the same cyclic neighborhood
// Archipelago.migrate walks in-process. Even ranks send then receive;
// odd ranks receive then send, the usual parity rule for avoiding a
// blocking-send deadlock in a ring, even though Go's buffered channels
// never actually block here.
//
// Bind it with arch.MigrateFunc = parallel.MigrateRanked[C] to run
// migration this way instead of Archipelago's default sequential pass.
func MigrateRanked[C genetics.Chromosome[C]](a *genetics.Archipelago[C]) error {
	k := len(a.Islands)
	if k < 2 {
		return nil
	}

	// Migration probabilities are thrown on the driver before any rank
	// starts, so that (a) the migrant set reflects each island's census at
	// the start of the generation, not mid-transfer arrivals, and (b) the
	// islands' PRNGs are never touched from more than one goroutine.
	migrants := make([][]*genetics.Entity[C], k)
	for rank, src := range a.Islands {
		for _, e := range src.RankView() {
			if src.Rand.Float64() < src.MigrationRatio {
				migrants[rank] = append(migrants[rank], e)
			}
		}
	}

	outbox := make([]chan *genetics.Entity[C], k)
	for rank := range a.Islands {
		outbox[rank] = make(chan *genetics.Entity[C], len(migrants[rank]))
	}

	send := func(rank int) {
		for _, e := range migrants[rank] {
			outbox[rank] <- e
		}
		close(outbox[rank])
	}
	receive := func(rank int) error {
		neighbor := (rank + 1) % k
		dst := a.Islands[rank]
		for e := range outbox[neighbor] {
			if _, err := dst.CloneEntity(e); err != nil {
				return err
			}
		}
		return nil
	}

	errChan := make(chan error, k)
	var wg sync.WaitGroup
	for rank := 0; rank < k; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			var err error
			if rank%2 == 0 {
				send(rank)
				err = receive(rank)
			} else {
				err = receive(rank)
				send(rank)
			}
			if err != nil {
				errChan <- err
			}
		}(rank)
	}
	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}
