package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/fanbatch/internal/cli/mocks"
	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
	"github.com/agbru/fanbatch/internal/worker"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 10, 20, 30, 123*int(time.Millisecond), time.Local)
}

func TestConsoleObserver_Lines(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	obs := NewConsoleObserver(&buf, 3, false)
	obs.now = fixedClock

	report := orchestration.New(orchestration.WithObserver(obs)).
		Run(context.Background(), orchestration.AsWorkers(worker.ReferenceBatch()))
	require.NoError(t, report.Err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[10:20:30.123] [Main] Starting 3 worker threads...", lines[0])
	assert.Equal(t, "[10:20:30.123] [Main] All workers joined. Collecting results...", lines[1])
	for _, line := range lines[2:] {
		assert.Regexp(t, `^  \[\d\d:\d\d:\d\d\.\d{3}\] \[(one|two|three)-thread\] \[SUCCESS\] Task \d completed \(work=\d+\)$`, line)
	}
}

func TestConsoleObserver_Spinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	spin := mocks.NewMockSpinner(ctrl)

	saved := newSpinner
	newSpinner = func(io.Writer) Spinner { return spin }
	t.Cleanup(func() { newSpinner = saved })

	gomock.InOrder(
		spin.EXPECT().UpdateSuffix(" awaiting workers: 0/2 finished"),
		spin.EXPECT().Start(),
		spin.EXPECT().UpdateSuffix(" awaiting workers: 1/2 finished"),
		spin.EXPECT().UpdateSuffix(" awaiting workers: 2/2 finished"),
		spin.EXPECT().Stop(),
	)

	obs := NewConsoleObserver(io.Discard, 2, true)
	obs.OnStateChange("r", orchestration.StateSpawning, orchestration.StateAwaitingCompletion)
	obs.OnWorkerFinished(outcome.WorkerID{Index: 0}, time.Millisecond)
	obs.OnWorkerFinished(outcome.WorkerID{Index: 1}, time.Millisecond)
	obs.OnStateChange("r", orchestration.StateAwaitingCompletion, orchestration.StateDraining)
	// A second stop is suppressed.
	obs.OnStateChange("r", orchestration.StateDraining, orchestration.StateSummarized)
}

func TestConsoleObserver_NoSpinnerUpdatesBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	spin := mocks.NewMockSpinner(ctrl)

	saved := newSpinner
	newSpinner = func(io.Writer) Spinner { return spin }
	t.Cleanup(func() { newSpinner = saved })

	// No expectations: a worker finishing before the spinner starts must
	// not touch it.
	obs := NewConsoleObserver(io.Discard, 1, true)
	obs.OnWorkerFinished(outcome.WorkerID{}, time.Millisecond)
	obs.OnOutcome(outcome.Success(outcome.WorkerID{Name: "a"}, fixedClock(), 1, "ok"))
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
