package metrics

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
	"github.com/agbru/fanbatch/internal/worker"
)

func TestRecorder_Counts(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	at := time.Now()

	r.RecordOutcome(outcome.Success(outcome.WorkerID{Name: "a"}, at, 1, "ok"))
	r.RecordOutcome(outcome.Success(outcome.WorkerID{Name: "b"}, at, 1, "ok"))
	r.RecordOutcome(outcome.Failure(outcome.WorkerID{Name: "c"}, at, "panic", "boom"))
	r.RecordWorker("a", 150*time.Millisecond)
	r.RecordRun(orchestration.Summary{Expected: 3, Received: 3, Failed: 1, Verdict: orchestration.VerdictPartial, Reason: orchestration.ReasonComplete, Elapsed: time.Second})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.faultsTotal.WithLabelValues("panic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("PARTIAL", "complete")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.lastRunReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lastRunSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(r.workerDurationSeconds))
}

func TestRecorder_WithCoordinator(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	workers := orchestration.AsWorkers(worker.ReferenceBatch())

	report := orchestration.New(orchestration.WithRecorder(r)).Run(context.Background(), workers)
	require.NoError(t, report.Err)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.outcomesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("SUCCESS", "complete")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.lastRunExpected))
}

func TestRecorder_WriteText(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.RecordRun(orchestration.Summary{Expected: 3, Received: 2, Verdict: orchestration.VerdictError, Reason: orchestration.ReasonIncomplete})

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	for _, want := range []string{
		"# TYPE fanbatch_runs_total counter",
		`fanbatch_runs_total{reason="incomplete",verdict="ERROR"} 1`,
		"fanbatch_last_run_received_outcomes 2",
	} {
		assert.True(t, strings.Contains(out, want), "output should contain %q:\n%s", want, out)
	}
}

func TestRecorder_WriteFile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.RecordWorker("a", time.Millisecond)
	path := filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, r.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fanbatch_worker_duration_seconds_count 1")

	assert.Error(t, r.WriteFile(filepath.Join(t.TempDir(), "missing", "metrics.prom")))
}
