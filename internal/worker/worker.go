package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/logging"
	"github.com/agbru/fanbatch/internal/outcome"
)

// Computation is the bounded pure work a task performs after its delay.
// Implementations should return promptly once ctx is done.
type Computation func(ctx context.Context) (int64, error)

// Task is a one-shot unit of work. It owns no state shared with other tasks.
type Task struct {
	name    string
	label   string
	delay   time.Duration
	compute Computation
	now     func() time.Time
	logger  logging.Logger
}

// Option configures a Task.
type Option func(*Task)

// WithLabel sets the label used in outcome messages (e.g. "Task 2").
// The worker name is used when no label is set.
func WithLabel(label string) Option {
	return func(t *Task) { t.label = label }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Task) { t.now = now }
}

// WithLogger sets the logger used to report failed sends.
func WithLogger(l logging.Logger) Option {
	return func(t *Task) { t.logger = l }
}

// NewTask creates a task that sleeps for delay and then runs compute.
// A nil compute is treated as a computation returning zero.
func NewTask(name string, delay time.Duration, compute Computation, opts ...Option) *Task {
	t := &Task{
		name:    name,
		delay:   delay,
		compute: compute,
		now:     time.Now,
		logger:  logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.compute == nil {
		t.compute = Constant(0)
	}
	return t
}

// Name returns the worker name.
func (t *Task) Name() string { return t.name }

// Label returns the label used in outcome messages.
func (t *Task) Label() string {
	if t.label != "" {
		return t.label
	}
	return t.name
}

// Delay returns the synthetic latency the task simulates.
func (t *Task) Delay() time.Duration { return t.delay }

// Run performs the task and reports exactly one outcome on results.
//
// The report is deferred before any work starts, so it runs on every exit
// path: normal completion, an error from the computation, a panic, ctx
// ending during the delay, or the computation calling runtime.Goexit.
// Faults are converted to an Error outcome here and never reach the caller.
func (t *Task) Run(ctx context.Context, results outcome.Sink, id outcome.WorkerID) {
	start := t.now()
	var (
		value     int64
		err       error
		completed bool
	)
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.PanicError{Value: r, Stack: debug.Stack()}
		} else if !completed && err == nil {
			err = apperrors.WorkerFault{Worker: t.name, Kind: apperrors.KindGoexit, Cause: errGoexit}
		}
		t.report(ctx, results, id, start, value, err)
	}()

	if err = sleep(ctx, t.delay); err != nil {
		return
	}
	value, err = t.compute(ctx)
	completed = true
}

// errGoexit is the cause reported when a computation leaves without
// returning and without panicking.
var errGoexit = errors.New("computation exited without returning")

func (t *Task) report(ctx context.Context, results outcome.Sink, id outcome.WorkerID, start time.Time, value int64, err error) {
	at := t.now()
	var o outcome.Outcome
	if err != nil {
		kind := apperrors.FaultKind(err)
		o = outcome.Failure(id, at, kind, fmt.Sprintf("%s failed: %s: %s", t.Label(), kind, faultDetail(err)))
	} else {
		o = outcome.Success(id, at, value, fmt.Sprintf("%s completed (work=%d)", t.Label(), value))
	}
	o.Elapsed = at.Sub(start)

	if sendErr := results.Send(ctx, o); sendErr != nil {
		t.logger.Error("outcome not delivered", sendErr,
			logging.String("worker", id.String()),
			logging.String("status", o.Status.String()))
	}
}

// faultDetail returns the message of err without a WorkerFault's kind
// prefix, which the outcome message already carries.
func faultDetail(err error) string {
	var fault apperrors.WorkerFault
	if errors.As(err, &fault) && fault.Cause != nil {
		return fault.Cause.Error()
	}
	return err.Error()
}

// sleep waits for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
