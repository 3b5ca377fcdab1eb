package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
)

func sampleReport() orchestration.Report {
	out := outcomes(2, 1)
	out[0].Worker.Name = "one-thread"
	s := orchestration.Summarize(3, out, 0)
	s.RunID = "run-1"
	return orchestration.Report{Summary: s, Outcomes: out}
}

func TestWriteReportFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.yaml")
	r := sampleReport()

	require.NoError(t, WriteReportFile(path, r, fixedClock()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "verdict: PARTIAL")
	assert.Contains(t, content, "reason: complete")
	assert.Contains(t, content, "status: error")
	assert.NotContains(t, content, "error: ")

	back, err := ReadReportFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Summary, back.Summary)
	require.Len(t, back.Outcomes, 3)
	assert.Equal(t, outcome.StatusSuccess, back.ByWorker()["one-thread"].Status)
}

func TestWriteReportFile_RunError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.yaml")
	r := sampleReport()
	r.Err = apperrors.DrainTimeoutError{Expected: 3, Received: 2}

	require.NoError(t, WriteReportFile(path, r, fixedClock()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "error: ")
}

func TestWriteReportFile_EmptyPath(t *testing.T) {
	t.Parallel()
	assert.NoError(t, WriteReportFile("", sampleReport(), fixedClock()))
}

func TestDisplayReport_Quiet(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	require.NoError(t, DisplayReport(&buf, sampleReport(), fixedClock(), OutputConfig{Quiet: true}))
	assert.Equal(t, "[10:20:30.123] [Main] ⚠ PARTIAL: All 3 workers reported, but 1 failed.\n", buf.String())
}

func TestDisplayReport_SavesFile(t *testing.T) {
	noColor(t)
	path := filepath.Join(t.TempDir(), "report.yaml")
	var buf bytes.Buffer
	require.NoError(t, DisplayReport(&buf, sampleReport(), fixedClock(), OutputConfig{OutputFile: path}))
	assert.True(t, strings.HasSuffix(buf.String(), "✓ Report saved to: "+path+"\n"))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
