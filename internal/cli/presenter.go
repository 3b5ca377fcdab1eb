package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/fanbatch/internal/format"
	"github.com/agbru/fanbatch/internal/metrics"
	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
	"github.com/agbru/fanbatch/internal/ui"
)

// SummaryDetails carries the optional --verbose details of a run.
type SummaryDetails struct {
	Verbose bool
	// Memory is the process memory change over the run, if measured.
	Memory *metrics.MemoryDelta
}

// mainLine formats a coordinator line: "[15:04:05.000] [Main] msg".
func mainLine(at time.Time, msg string) string {
	theme := ui.GetCurrentTheme()
	return fmt.Sprintf("[%s] [%s] %s",
		theme.Paint(theme.Secondary, format.Timestamp(at)),
		theme.Paint(theme.Primary, "Main"),
		msg)
}

// FormatOutcome formats one collected outcome without color.
func FormatOutcome(o outcome.Outcome) string {
	return fmt.Sprintf("  [%s] [%s] [%s] %s", format.Timestamp(o.Timestamp), o.Worker, o.Status.Label(), o.Message)
}

// DisplayOutcome writes one collected outcome line.
func DisplayOutcome(out io.Writer, o outcome.Outcome) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "  [%s] [%s] [%s] %s\n",
		theme.Paint(theme.Secondary, format.Timestamp(o.Timestamp)),
		o.Worker,
		theme.Paint(theme.StatusColor(o.Succeeded()), o.Status.Label()),
		o.Message)
}

// FormatVerdict returns the verdict sentence for s without color or
// timestamp.
func FormatVerdict(s orchestration.Summary) string {
	switch {
	case s.Verdict == orchestration.VerdictSuccess:
		return fmt.Sprintf("✓ SUCCESS: All %d workers completed successfully.", s.Expected)
	case s.Verdict == orchestration.VerdictPartial:
		return fmt.Sprintf("⚠ PARTIAL: All %d workers reported, but %d failed.", s.Expected, s.Failed)
	case s.Reason == orchestration.ReasonRejected:
		return fmt.Sprintf("✗ ERROR: Expected %d results, got %d (%d sends rejected).", s.Expected, s.Received, s.Rejected)
	default:
		return fmt.Sprintf("✗ ERROR: Expected %d results, got %d.", s.Expected, s.Received)
	}
}

// DisplayVerdict writes the timestamped verdict line.
func DisplayVerdict(out io.Writer, s orchestration.Summary, at time.Time) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintln(out, mainLine(at, theme.Paint(theme.VerdictColor(s.Verdict.String()), FormatVerdict(s))))
}

// DisplaySummary writes the summary block followed by the verdict line.
// runErr, when set, explains why the drain stopped early.
func DisplaySummary(out io.Writer, s orchestration.Summary, runErr error, at time.Time, details SummaryDetails) {
	fmt.Fprintln(out, mainLine(at, "Result Summary:"))
	fmt.Fprintf(out, "  Total results collected: %d\n", s.Received)
	fmt.Fprintf(out, "  Successful: %d\n", s.Succeeded)
	fmt.Fprintf(out, "  Failed: %d\n", s.Failed)
	if s.Rejected > 0 {
		fmt.Fprintf(out, "  Rejected sends: %d\n", s.Rejected)
	}
	if runErr != nil {
		fmt.Fprintf(out, "  Stopped: %v\n", runErr)
	}
	if details.Verbose {
		displayRunDetails(out, s, details.Memory)
	}
	DisplayVerdict(out, s, at)
}

func displayRunDetails(out io.Writer, s orchestration.Summary, mem *metrics.MemoryDelta) {
	fmt.Fprintf(out, "  Run ID: %s\n", s.RunID)
	fmt.Fprintf(out, "  Elapsed: %s\n", format.FormatExecutionDuration(s.Elapsed))
	if mem != nil {
		fmt.Fprintf(out, "  Memory: %s allocated, heap %s, %d GC cycles\n",
			format.FormatBytes(mem.Allocated), format.FormatSignedBytes(mem.HeapDelta), mem.GCCycles)
	}
}
