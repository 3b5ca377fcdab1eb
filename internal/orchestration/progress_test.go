package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/agbru/fanbatch/internal/outcome"
	"github.com/agbru/fanbatch/internal/worker"
)

func TestNewProgressTracker_Empty(t *testing.T) {
	if NewProgressTracker(nil) != nil {
		t.Error("expected nil tracker for an empty batch")
	}
}

func TestProgressTracker_Phases(t *testing.T) {
	workers := AsWorkers(worker.ReferenceBatch())
	tr := NewProgressTracker(workers)

	snap := tr.Snapshot()
	if snap.Total() != 3 || snap.State != StateIdle {
		t.Fatalf("initial snapshot = %+v", snap)
	}
	for _, w := range snap.Workers {
		if w.Phase != PhasePending {
			t.Errorf("%s phase = %s, want pending", w.ID, w.Phase)
		}
	}

	id := outcome.WorkerID{Index: 1, Name: "two-thread"}
	tr.OnWorkerStarted(id)
	if got := tr.Snapshot().Workers[1].Phase; got != PhaseRunning {
		t.Errorf("phase = %s, want running", got)
	}

	tr.OnWorkerFinished(id, 150*time.Millisecond)
	tr.OnWorkerFinished(id, time.Second) // counted once
	snap = tr.Snapshot()
	if snap.Finished != 1 || snap.Workers[1].Elapsed != 150*time.Millisecond {
		t.Errorf("after finish = %+v", snap.Workers[1])
	}
	if f := snap.FinishedFraction(); f < 0.33 || f > 0.34 {
		t.Errorf("FinishedFraction = %f", f)
	}

	tr.OnOutcome(outcome.Failure(id, time.Now(), "errors.errorString", "Task 2 failed"))
	snap = tr.Snapshot()
	if snap.Collected != 1 || snap.Workers[1].Outcome == nil || snap.Workers[1].Outcome.Status != outcome.StatusError {
		t.Errorf("after outcome = %+v", snap.Workers[1])
	}

	// Unknown indices are ignored.
	tr.OnWorkerStarted(outcome.WorkerID{Index: 9})
	tr.OnOutcome(outcome.Success(outcome.WorkerID{Index: -1}, time.Now(), 0, ""))
}

func TestProgressTracker_ObservesRun(t *testing.T) {
	workers := AsWorkers(worker.ReferenceBatch())
	tr := NewProgressTracker(workers)

	New(WithObserver(tr)).Run(context.Background(), workers)

	snap := tr.Snapshot()
	if snap.State != StateSummarized {
		t.Errorf("state = %s", snap.State)
	}
	if snap.Finished != 3 || snap.Collected != 3 {
		t.Errorf("finished=%d collected=%d", snap.Finished, snap.Collected)
	}
	if snap.Summary == nil || snap.Summary.Verdict != VerdictSuccess {
		t.Errorf("summary = %+v", snap.Summary)
	}
	if snap.FinishedFraction() != 1 {
		t.Errorf("FinishedFraction = %f", snap.FinishedFraction())
	}
}

func TestPhase_String(t *testing.T) {
	want := map[Phase]string{PhasePending: "pending", PhaseRunning: "running", PhaseFinished: "finished", PhaseCollected: "collected"}
	for p, s := range want {
		if p.String() != s {
			t.Errorf("%d.String() = %q, want %q", p, p.String(), s)
		}
	}
}

func TestWorkerNames(t *testing.T) {
	got := WorkerNames(AsWorkers(worker.ReferenceBatch()))
	if len(got) != 3 || got[0] != "one-thread" || got[2] != "three-thread" {
		t.Errorf("WorkerNames = %v", got)
	}
}
