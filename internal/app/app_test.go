package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/fanbatch/internal/cli"
	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/orchestration"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), append([]string{"--no-color", "--log-backend", "nop"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_ReferenceBatch(t *testing.T) {
	code, out, _ := run(t)
	assert.Equal(t, apperrors.ExitSuccess, code)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "[Main] Starting 3 worker threads...")
	assert.Contains(t, lines[1], "[Main] All workers joined. Collecting results...")
	assert.Contains(t, out, "[one-thread] [SUCCESS] Task 1 completed (work=2664667000)")
	assert.Contains(t, out, "[two-thread] [SUCCESS] Task 2 completed (work=13495500)")
	assert.Contains(t, out, "[three-thread] [SUCCESS] Task 3 completed (work=3123766)")
	assert.Contains(t, out, "  Total results collected: 3\n  Successful: 3\n  Failed: 0\n")
	assert.Contains(t, lines[9], "[Main] ✓ SUCCESS: All 3 workers completed successfully.")
}

func TestExecute_ForcedFailureIsPartial(t *testing.T) {
	code, out, _ := run(t, "--fail", "two-thread")
	assert.Equal(t, apperrors.ExitPartial, code)
	assert.Contains(t, out, "[two-thread] [ERROR] Task 2 failed: InjectedFault: forced failure")
	assert.Contains(t, out, "⚠ PARTIAL: All 3 workers reported, but 1 failed.")
}

func TestExecute_Quiet(t *testing.T) {
	code, out, _ := run(t, "--quiet")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "✓ SUCCESS")
}

func TestExecute_Verbose(t *testing.T) {
	_, out, _ := run(t, "-v")
	assert.Contains(t, out, "  Run ID: ")
	assert.Contains(t, out, "  Elapsed: ")
	assert.Contains(t, out, "  Memory: ")
}

func TestExecute_BatchFileAndOutputs(t *testing.T) {
	dir := t.TempDir()
	batch := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(batch, []byte(`
workers:
  - {name: a, delay: 5ms, payload: sum-squares, limit: 10}
  - {name: b, delay: 1ms, payload: xor-sum, limit: 10, mask: 1, fail: true}
`), 0o600))
	report := filepath.Join(dir, "out", "report.yaml")
	metricsFile := filepath.Join(dir, "metrics.prom")

	code, out, _ := run(t, "--batch", batch, "-o", report, "--metrics-file", metricsFile)
	assert.Equal(t, apperrors.ExitPartial, code)
	assert.Contains(t, out, "Starting 2 worker threads...")
	assert.Contains(t, out, "✓ Report saved to: "+report)

	saved, err := cli.ReadReportFile(report)
	require.NoError(t, err)
	assert.Equal(t, orchestration.VerdictPartial, saved.Summary.Verdict)
	assert.Len(t, saved.Outcomes, 2)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fanbatch_runs_total{reason="complete",verdict="PARTIAL"} 1`)
	assert.Contains(t, string(data), `fanbatch_outcomes_total{status="error"} 1`)
}

func TestExecute_Trace(t *testing.T) {
	code, _, errOut := run(t, "--quiet", "--trace")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, errOut, "fanbatch.run")
	assert.Contains(t, errOut, "fanbatch.worker")
}

func TestExecute_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope"}, "unknown flag"},
		{"extra args", []string{"now"}, "unexpected arguments"},
		{"negative capacity", []string{"--capacity", "-1"}, "capacity"},
		{"unknown worker", []string{"--fail", "four-thread"}, "four-thread"},
		{"missing batch", []string{"--batch", "/nonexistent/batch.yaml"}, "batch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			assert.Equal(t, apperrors.ExitErrorConfig, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestExecute_Version(t *testing.T) {
	code, out, _ := run(t, "--version")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "fanbatch "+Version))
}

func TestExecute_Help(t *testing.T) {
	code, out, _ := run(t, "--help")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, out, "--drain-timeout")
}

func TestExecute_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer
	code := Execute(ctx, []string{"--no-color", "--log-backend", "nop"}, &out, &errOut)
	assert.Equal(t, apperrors.ExitErrorCanceled, code)
	// Every worker still reports its own cancellation.
	assert.Contains(t, out.String(), "  Failed: 3\n")
	assert.Contains(t, out.String(), "  Stopped: context canceled\n")
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "commit "+Commit)
}
