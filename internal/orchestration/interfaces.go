//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"context"
	"time"

	"github.com/agbru/fanbatch/internal/outcome"
)

// Worker is a one-shot unit of concurrent work. Run must send exactly one
// outcome on results before it returns, whatever happens inside it.
type Worker interface {
	// Name identifies the worker in outcomes and logs.
	Name() string
	// Run performs the work. The coordinator assigns id at spawn time.
	Run(ctx context.Context, results outcome.Sink, id outcome.WorkerID)
}

// Observer receives lifecycle notifications from a run. This interface
// decouples the coordinator from the presentation layer: the console, the
// dashboard and tests all plug in here.
//
// OnWorkerStarted and OnWorkerFinished run on worker goroutines and may be
// called concurrently. The other methods are called from the goroutine that
// called Run.
type Observer interface {
	// OnStateChange reports a coordinator state transition.
	OnStateChange(runID string, from, to State)
	// OnWorkerStarted reports that a worker goroutine has begun.
	OnWorkerStarted(id outcome.WorkerID)
	// OnWorkerFinished reports that a worker goroutine has returned.
	OnWorkerFinished(id outcome.WorkerID, elapsed time.Duration)
	// OnOutcome reports an outcome collected by the drain.
	OnOutcome(o outcome.Outcome)
	// OnSummary reports the final summary once the run is summarized.
	OnSummary(s Summary)
}

// NullObserver is a no-op implementation of Observer.
// Useful for quiet mode or testing.
type NullObserver struct{}

func (NullObserver) OnStateChange(string, State, State) {}
func (NullObserver) OnWorkerStarted(outcome.WorkerID) {}
func (NullObserver) OnWorkerFinished(outcome.WorkerID, time.Duration) {}
func (NullObserver) OnOutcome(outcome.Outcome) {}
func (NullObserver) OnSummary(Summary) {}

// MultiObserver fans every notification out to each observer in order.
type MultiObserver []Observer

func (m MultiObserver) OnStateChange(runID string, from, to State) {
	for _, o := range m {
		o.OnStateChange(runID, from, to)
	}
}

func (m MultiObserver) OnWorkerStarted(id outcome.WorkerID) {
	for _, o := range m {
		o.OnWorkerStarted(id)
	}
}

func (m MultiObserver) OnWorkerFinished(id outcome.WorkerID, elapsed time.Duration) {
	for _, o := range m {
		o.OnWorkerFinished(id, elapsed)
	}
}

func (m MultiObserver) OnOutcome(oc outcome.Outcome) {
	for _, o := range m {
		o.OnOutcome(oc)
	}
}

func (m MultiObserver) OnSummary(s Summary) {
	for _, o := range m {
		o.OnSummary(s)
	}
}

// Recorder records run measurements. Implementations must be safe for
// concurrent use; RecordWorker runs on worker goroutines.
type Recorder interface {
	// RecordOutcome counts a collected outcome.
	RecordOutcome(o outcome.Outcome)
	// RecordWorker records how long a worker goroutine ran.
	RecordWorker(name string, elapsed time.Duration)
	// RecordRun records the final summary of a run.
	RecordRun(s Summary)
}

// NullRecorder discards every measurement.
type NullRecorder struct{}

func (NullRecorder) RecordOutcome(outcome.Outcome) {}
func (NullRecorder) RecordWorker(string, time.Duration) {}
func (NullRecorder) RecordRun(Summary) {}
