package orchestration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agbru/fanbatch/internal/worker"
)

// behaviorWorkers builds n workers that all follow behavior:
// "instant", "slow", "error" or "panic".
func behaviorWorkers(prefix, behavior string, n int) []Worker {
	ws := make([]Worker, n)
	for i := range ws {
		name := fmt.Sprintf("%s-%d", prefix, i)
		switch behavior {
		case "slow":
			ws[i] = worker.NewTask(name, 20*time.Millisecond, worker.SumOfSquares(50_000))
		case "error":
			ws[i] = worker.NewTask(name, 0, worker.Failing(fmt.Errorf("simulated error %d", i)))
		case "panic":
			ws[i] = worker.NewTask(name, 0, worker.Panicking(i))
		default:
			ws[i] = worker.NewTask(name, 0, worker.Constant(int64(i)))
		}
	}
	return ws
}

// TestOrchestrationNoDeadlock_MixedBehaviors verifies that Run completes and
// collects one outcome per worker under various behavior combinations.
func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	testCases := []struct {
		name    string
		workers []Worker
	}{
		{name: "all_instant", workers: behaviorWorkers("i", "instant", 3)},
		{name: "mixed_instant_and_slow", workers: append(behaviorWorkers("i", "instant", 2), behaviorWorkers("s", "slow", 2)...)},
		{name: "mixed_with_errors", workers: append(behaviorWorkers("i", "instant", 2), behaviorWorkers("e", "error", 2)...)},
		{name: "mixed_with_panics", workers: append(behaviorWorkers("i", "instant", 2), behaviorWorkers("p", "panic", 2)...)},
		{name: "wide_batch", workers: behaviorWorkers("w", "instant", 500)},
		{name: "single_worker", workers: behaviorWorkers("solo", "instant", 1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			done := make(chan Report, 1)
			go func() {
				done <- New(WithDrainTimeout(0)).Run(ctx, tc.workers)
			}()

			select {
			case report := <-done:
				if report.Summary.Received != len(tc.workers) {
					t.Errorf("received %d outcomes, want %d", report.Summary.Received, len(tc.workers))
				}
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: Run did not complete within timeout")
			}
		})
	}
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that cancelling
// the context while workers sleep does not cause a deadlock, and that every
// worker still reports.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	workers := []Worker{
		worker.NewTask("slow1", time.Hour, worker.Constant(1)),
		worker.NewTask("slow2", time.Hour, worker.Constant(2)),
	}

	done := make(chan Report, 1)
	go func() {
		done <- New(WithDrainTimeout(0)).Run(ctx, workers)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case report := <-done:
		if report.Summary.Received != 2 || report.Summary.Failed != 2 {
			t.Errorf("expected two canceled outcomes, got %+v", report.Summary)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
