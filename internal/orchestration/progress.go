package orchestration

import (
	"sync"
	"time"

	"github.com/agbru/fanbatch/internal/outcome"
)

// Phase is where a single worker is in the run.
type Phase uint8

const (
	PhasePending Phase = iota
	PhaseRunning
	PhaseFinished
	PhaseCollected
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	case PhaseCollected:
		return "collected"
	default:
		return "pending"
	}
}

// WorkerProgress is the tracked state of one worker.
type WorkerProgress struct {
	ID      outcome.WorkerID
	Phase   Phase
	Elapsed time.Duration
	// Outcome is set once the drain has collected the worker's outcome.
	Outcome *outcome.Outcome
}

// ProgressSnapshot is a consistent copy of the tracker state.
type ProgressSnapshot struct {
	State     State
	Workers   []WorkerProgress
	Finished  int
	Collected int
	Summary   *Summary
}

// Total returns the batch size.
func (s ProgressSnapshot) Total() int { return len(s.Workers) }

// FinishedFraction returns the share of workers that have returned, 0 to 1.
func (s ProgressSnapshot) FinishedFraction() float64 {
	if len(s.Workers) == 0 {
		return 0
	}
	return float64(s.Finished) / float64(len(s.Workers))
}

// ProgressTracker aggregates observer notifications into per-worker
// progress. Both the CLI spinner and the TUI read from it, which avoids
// duplicating the bookkeeping. It is safe for concurrent use.
type ProgressTracker struct {
	mu       sync.Mutex
	state    State
	workers  []WorkerProgress
	finished int
	summary  *Summary
}

// NewProgressTracker creates a tracker for workers, indexed the way the
// coordinator assigns identities. Returns nil if workers is empty.
func NewProgressTracker(workers []Worker) *ProgressTracker {
	if len(workers) == 0 {
		return nil
	}
	t := &ProgressTracker{state: StateIdle, workers: make([]WorkerProgress, len(workers))}
	for i, w := range workers {
		t.workers[i].ID = outcome.WorkerID{Index: i, Name: w.Name()}
	}
	return t
}

func (t *ProgressTracker) slot(id outcome.WorkerID) *WorkerProgress {
	if id.Index < 0 || id.Index >= len(t.workers) {
		return nil
	}
	return &t.workers[id.Index]
}

// OnStateChange records the coordinator state.
func (t *ProgressTracker) OnStateChange(_ string, _, to State) {
	t.mu.Lock()
	t.state = to
	t.mu.Unlock()
}

// OnWorkerStarted marks the worker running.
func (t *ProgressTracker) OnWorkerStarted(id outcome.WorkerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w := t.slot(id); w != nil && w.Phase == PhasePending {
		w.Phase = PhaseRunning
	}
}

// OnWorkerFinished marks the worker finished.
func (t *ProgressTracker) OnWorkerFinished(id outcome.WorkerID, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w := t.slot(id); w != nil && w.Phase < PhaseFinished {
		w.Phase = PhaseFinished
		w.Elapsed = elapsed
		t.finished++
	}
}

// OnOutcome attaches a collected outcome to its worker.
func (t *ProgressTracker) OnOutcome(o outcome.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w := t.slot(o.Worker); w != nil {
		w.Phase = PhaseCollected
		w.Outcome = &o
	}
}

// OnSummary records the final summary.
func (t *ProgressTracker) OnSummary(s Summary) {
	t.mu.Lock()
	t.summary = &s
	t.mu.Unlock()
}

// Snapshot returns a copy of the current progress.
func (t *ProgressTracker) Snapshot() ProgressSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := ProgressSnapshot{
		State:    t.state,
		Workers:  append([]WorkerProgress(nil), t.workers...),
		Finished: t.finished,
		Summary:  t.summary,
	}
	for _, w := range t.workers {
		if w.Phase == PhaseCollected {
			snap.Collected++
		}
	}
	return snap
}
