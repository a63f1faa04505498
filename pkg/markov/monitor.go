package markov

// monitor.go: statistics for the program search

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// SearchStats holds statistics about a search run.
type SearchStats struct {
	// Enumeration statistics
	Candidates uint64 // Programs built from an index
	LastIndex  uint64 // Most recent index visited

	// Pruning statistics
	PrunedNoOp      uint64 // Programs with a rule that rewrites its pattern to itself
	PrunedDuplicate uint64 // Programs with two rules sharing a pattern

	// Evaluation statistics
	Evaluated   uint64 // Programs run against the test set
	Evaluations uint64 // Single test-case runs
	StepLimit   uint64 // Runs stopped by the step bound
	LengthLimit uint64 // Runs stopped by the length bound
	Mismatches  uint64 // Runs that finished with the wrong output
	Matches     uint64 // Programs that passed every test

	SearchTime time.Duration
}

// Pruned returns the number of programs rejected before evaluation.
func (s SearchStats) Pruned() uint64 {
	return s.PrunedNoOp + s.PrunedDuplicate
}

// String returns a one-line summary.
func (s SearchStats) String() string {
	return fmt.Sprintf("candidates=%d pruned=%d evaluated=%d step_limit=%d length_limit=%d mismatches=%d matches=%d time=%s",
		s.Candidates, s.Pruned(), s.Evaluated, s.StepLimit, s.LengthLimit, s.Mismatches, s.Matches, s.SearchTime)
}

// SearchMonitor collects SearchStats. It is written by the searcher and
// may be read concurrently, e.g. by a metrics collector.
type SearchMonitor struct {
	mu        sync.Mutex
	stats     SearchStats
	startTime time.Time
}

// NewSearchMonitor creates a new search monitor.
func NewSearchMonitor() *SearchMonitor {
	return &SearchMonitor{}
}

// GetStats returns a copy of the current statistics. While a run is in
// progress SearchTime includes the time elapsed so far.
func (m *SearchMonitor) GetStats() SearchStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.stats
	if !m.startTime.IsZero() {
		stats.SearchTime += time.Since(m.startTime)
	}
	return stats
}

// Start marks the beginning of a run.
func (m *SearchMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTime = time.Now()
}

// Stop marks the end of a run.
func (m *SearchMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.startTime.IsZero() {
		m.stats.SearchTime += time.Since(m.startTime)
		m.startTime = time.Time{}
	}
}

// RecordCandidate records building the program for index.
func (m *SearchMonitor) RecordCandidate(index uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Candidates++
	m.stats.LastIndex = index
}

// RecordPruned records a program rejected for reason.
func (m *SearchMonitor) RecordPruned(reason PruneReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch reason {
	case PruneNoOp:
		m.stats.PrunedNoOp++
	case PruneDuplicatePattern:
		m.stats.PrunedDuplicate++
	}
}

// RecordEvaluated records a program being run against the test set.
func (m *SearchMonitor) RecordEvaluated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Evaluated++
}

// RecordOutcome records one test-case run: err is the evaluation error,
// ok whether the output matched.
func (m *SearchMonitor) RecordOutcome(err error, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Evaluations++
	switch {
	case errors.Is(err, ErrStepLimit):
		m.stats.StepLimit++
	case errors.Is(err, ErrLengthLimit):
		m.stats.LengthLimit++
	case !ok:
		m.stats.Mismatches++
	}
}

// RecordMatch records a program passing every test.
func (m *SearchMonitor) RecordMatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Matches++
}
