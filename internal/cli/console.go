package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
)

// ConsoleObserver prints coordinator progress as timestamped console lines.
// While the coordinator awaits completion it animates a spinner, if one is
// enabled. It is safe for concurrent use.
type ConsoleObserver struct {
	mu       sync.Mutex
	out      io.Writer
	now      func() time.Time
	total    int
	finished int
	spinner  Spinner
	spinning bool
}

var _ orchestration.Observer = (*ConsoleObserver)(nil)

// NewConsoleObserver creates an observer for a batch of total workers.
// animate enables the spinner; callers usually pass IsTerminal(out).
func NewConsoleObserver(out io.Writer, total int, animate bool) *ConsoleObserver {
	c := &ConsoleObserver{out: out, now: time.Now, total: total}
	if animate {
		c.spinner = newSpinner(out)
	}
	return c
}

// OnStateChange prints the start and joined lines and drives the spinner.
func (c *ConsoleObserver) OnStateChange(_ string, _, to orchestration.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch to {
	case orchestration.StateSpawning:
		fmt.Fprintln(c.out, mainLine(c.now(), fmt.Sprintf("Starting %d worker threads...", c.total)))
	case orchestration.StateAwaitingCompletion:
		if c.spinner != nil {
			c.spinner.UpdateSuffix(c.suffix())
			c.spinner.Start()
			c.spinning = true
		}
	case orchestration.StateDraining:
		c.stopSpinner()
		fmt.Fprintln(c.out, mainLine(c.now(), "All workers joined. Collecting results..."))
	default:
		c.stopSpinner()
	}
}

// OnWorkerStarted is a no-op.
func (c *ConsoleObserver) OnWorkerStarted(outcome.WorkerID) {}

// OnWorkerFinished updates the spinner's count of finished workers.
func (c *ConsoleObserver) OnWorkerFinished(outcome.WorkerID, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished++
	if c.spinning {
		c.spinner.UpdateSuffix(c.suffix())
	}
}

// OnOutcome prints the collected outcome.
func (c *ConsoleObserver) OnOutcome(o outcome.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	DisplayOutcome(c.out, o)
}

// OnSummary is a no-op; the summary block is printed by DisplayReport.
func (c *ConsoleObserver) OnSummary(orchestration.Summary) {}

func (c *ConsoleObserver) suffix() string {
	return fmt.Sprintf(" awaiting workers: %d/%d finished", c.finished, c.total)
}

// stopSpinner must be called with c.mu held.
func (c *ConsoleObserver) stopSpinner() {
	if c.spinning {
		c.spinner.Stop()
		c.spinning = false
	}
}
