// Package format renders timestamps and durations for console output.
package format

import (
	"fmt"
	"time"
)

// TimestampLayout is the wall-clock layout of console lines, to the millisecond.
const TimestampLayout = "15:04:05.000"

// Timestamp formats t as HH:MM:SS.mmm in local time.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatExecutionDuration formats a duration for display: microseconds
// below a millisecond, milliseconds below a second, and the default
// representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatSignedBytes renders a byte delta with an explicit sign.
func FormatSignedBytes(n int64) string {
	if n < 0 {
		return "-" + FormatBytes(uint64(-n))
	}
	return "+" + FormatBytes(uint64(n))
}
