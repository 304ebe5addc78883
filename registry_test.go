package gaul

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePopulation struct {
	extinctCalls int
}

func (f *fakePopulation) Extinct() error {
	f.extinctCalls++
	return nil
}

func TestRegistry_InsertLookupRoundTrips(t *testing.T) {
	r := NewRegistry()
	pop := &fakePopulation{}
	handle := r.Insert(pop)

	got, ok := r.Lookup(handle)
	assert.True(t, ok)
	assert.Same(t, pop, got)
}

func TestRegistry_LookupMissingHandleReportsFalse(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup(99)
	assert.False(t, ok)
}

func TestRegistry_ExtinctionRemovesAndDestroys(t *testing.T) {
	r := NewRegistry()
	pop := &fakePopulation{}
	handle := r.Insert(pop)

	assert.NoError(t, r.Extinction(handle))
	assert.Equal(t, 1, pop.extinctCalls)

	_, ok := r.Lookup(handle)
	assert.False(t, ok)
}

func TestRegistry_TranscendThenResurrectPreservesPopulation(t *testing.T) {
	r := NewRegistry()
	pop := &fakePopulation{}
	handle := r.Insert(pop)

	transcended, ok := r.Transcend(handle)
	assert.True(t, ok)
	assert.Same(t, pop, transcended)

	_, stillPresent := r.Lookup(handle)
	assert.False(t, stillPresent)

	newHandle := r.Resurrect(transcended)
	assert.NotEqual(t, handle, newHandle)
	got, ok := r.Lookup(newHandle)
	assert.True(t, ok)
	assert.Same(t, pop, got)
}

func TestRegistry_HandlesEnumeratesEveryInsertedHandle(t *testing.T) {
	r := NewRegistry()
	h1 := r.Insert(&fakePopulation{})
	h2 := r.Insert(&fakePopulation{})

	handles := r.Handles()
	assert.ElementsMatch(t, []uint64{h1, h2}, handles)
}

func TestRegistry_ConcurrentInsertsProduceDistinctHandles(t *testing.T) {
	r := NewRegistry()
	const n = 50
	handles := make(chan uint64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles <- r.Insert(&fakePopulation{})
		}()
	}
	wg.Wait()
	close(handles)

	seen := make(map[uint64]bool)
	for h := range handles {
		assert.False(t, seen[h], "handle %d was issued twice", h)
		seen[h] = true
	}
	assert.Len(t, seen, n)
}
