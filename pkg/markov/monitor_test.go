package markov

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchMonitor(t *testing.T) {
	m := NewSearchMonitor()
	m.Start()
	m.RecordCandidate(7)
	m.RecordPruned(PruneNoOp)
	m.RecordCandidate(8)
	m.RecordPruned(PruneDuplicatePattern)
	m.RecordPruned(PruneNone)
	m.RecordCandidate(9)
	m.RecordEvaluated()
	m.RecordOutcome(ErrStepLimit, false)
	m.RecordOutcome(ErrLengthLimit, false)
	m.RecordOutcome(nil, false)
	m.RecordOutcome(nil, true)
	m.RecordMatch()
	time.Sleep(time.Millisecond)
	m.Stop()

	s := m.GetStats()
	assert.Equal(t, uint64(3), s.Candidates)
	assert.Equal(t, uint64(9), s.LastIndex)
	assert.Equal(t, uint64(2), s.Pruned())
	assert.Equal(t, uint64(1), s.Evaluated)
	assert.Equal(t, uint64(4), s.Evaluations)
	assert.Equal(t, uint64(1), s.StepLimit)
	assert.Equal(t, uint64(1), s.LengthLimit)
	assert.Equal(t, uint64(1), s.Mismatches)
	assert.Equal(t, uint64(1), s.Matches)
	assert.Positive(t, s.SearchTime)
	assert.Contains(t, s.String(), "candidates=3 pruned=2 evaluated=1")

	// Stopped monitors report a fixed elapsed time.
	assert.Equal(t, s.SearchTime, m.GetStats().SearchTime)
}

// TestSearchMonitor_ConcurrentReads reads stats while a writer records.
func TestSearchMonitor_ConcurrentReads(t *testing.T) {
	m := NewSearchMonitor()
	m.Start()
	defer m.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.RecordCandidate(uint64(i))
		}
	}()
	for i := 0; i < 100; i++ {
		_ = m.GetStats()
	}
	wg.Wait()
	assert.Equal(t, uint64(1000), m.GetStats().Candidates)
}
