package enhance

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/failparse/failparse/pkg/models"
)

// DefaultRetention is how long idle execution state is kept before the lazy
// cleanup removes it. Every update refreshes the clock, so executions still
// receiving updates are never evicted.
const DefaultRetention = time.Hour

// ErrUnknownExecution is returned when a summary is requested for an
// execution that was never tracked or has already been cleaned up.
var ErrUnknownExecution = errors.New("unknown execution")

// ProgressFunc observes one processed progressive update.
type ProgressFunc func(executionID string, result models.TestResult)

// executionState is the per-execution mutable state: the latest result per
// test id plus the set of test ids that reached a terminal status.
type executionState struct {
	mu        sync.RWMutex
	started   time.Time
	results   map[string]models.TestResult
	completed map[string]bool
	observers []ProgressFunc
}

// Tracker maintains progressive per-execution state. Updates for the same
// execution may arrive concurrently and out of order; the latest write per
// test id wins. Safe for concurrent use.
type Tracker struct {
	enhancer *Enhancer
	mu       sync.Mutex // guards state creation
	states   *cache.Cache
	now      func() time.Time
}

// NewTracker returns a Tracker over the given enhancer. retention bounds
// how long idle execution state survives; zero means DefaultRetention.
func NewTracker(enhancer *Enhancer, retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Tracker{
		enhancer: enhancer,
		states:   cache.New(retention, retention/4),
		now:      time.Now,
	}
}

// state returns the execution state, creating it on first touch. Each call
// re-stores the entry so its retention clock restarts.
func (t *Tracker) state(executionID string) *executionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.states.Get(executionID); ok {
		st := v.(*executionState)
		t.states.SetDefault(executionID, st)
		return st
	}

	st := &executionState{
		started:   t.now(),
		results:   make(map[string]models.TestResult),
		completed: make(map[string]bool),
	}
	t.states.SetDefault(executionID, st)
	return st
}

// lookup returns existing state without creating or refreshing it.
func (t *Tracker) lookup(executionID string) (*executionState, bool) {
	v, ok := t.states.Get(executionID)
	if !ok {
		return nil, false
	}
	return v.(*executionState), true
}

// ProcessUpdate handles one progressive update: exactly one result per
// call. Terminal statuses trigger failure synthesis; non-terminal ones are
// stored as-is. Observers run synchronously after storage.
func (t *Tracker) ProcessUpdate(executionID string, req models.BatchRequest) (*models.TestResult, error) {
	if req.Results == nil {
		return nil, ErrMissingResults
	}
	if len(req.Results) != 1 {
		return nil, ErrSingleResult
	}
	r := req.Results[0]
	if r.ID == "" {
		return nil, ErrMissingID
	}

	if r.Status.Terminal() {
		t.enhancer.EnhanceResult(&r)
	}

	st := t.state(executionID)

	st.mu.Lock()
	st.results[r.ID] = r
	if r.Status.Terminal() {
		st.completed[r.ID] = true
	}
	observers := append([]ProgressFunc(nil), st.observers...)
	st.mu.Unlock()

	for _, fn := range observers {
		fn(executionID, r)
	}

	return &r, nil
}

// OnProgress registers an observer for one execution. The callback is
// invoked synchronously for every subsequent update.
func (t *Tracker) OnProgress(executionID string, fn ProgressFunc) {
	st := t.state(executionID)
	st.mu.Lock()
	st.observers = append(st.observers, fn)
	st.mu.Unlock()
}

// Summary reports progress of one tracked execution.
func (t *Tracker) Summary(executionID string) (*models.ExecutionSummary, error) {
	st, ok := t.lookup(executionID)
	if !ok {
		return nil, ErrUnknownExecution
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	summary := &models.ExecutionSummary{
		ExecutionID:  executionID,
		Duration:     t.now().Sub(st.started).Seconds(),
		TotalTests:   len(st.results),
		Completed:    len(st.completed),
		StatusCounts: make(map[models.TestStatus]int),
	}

	for _, r := range st.results {
		summary.StatusCounts[r.Status]++
		if r.Status == models.StatusFailed {
			summary.FailedTests = append(summary.FailedTests, r.ID)
			if r.Failure.Parsed() {
				summary.ParsedFailures++
			}
		}
	}
	sort.Strings(summary.FailedTests)

	return summary, nil
}

// ParsingStats aggregates parsing success across every tracked execution,
// for operational monitoring of the engine's own effectiveness.
func (t *Tracker) ParsingStats() models.ParsingStats {
	var stats models.ParsingStats

	for _, item := range t.states.Items() {
		st := item.Object.(*executionState)
		st.mu.RLock()
		for _, r := range st.results {
			if r.Status == models.StatusFailed {
				stats.Attempted++
				if r.Failure.Parsed() {
					stats.Parsed++
				}
			}
		}
		st.mu.RUnlock()
	}

	stats.SuccessRate = models.Rate(stats.Attempted, stats.Parsed)
	return stats
}
